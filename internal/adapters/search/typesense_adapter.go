package search

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
	tsclient "github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/typesense"
)

const collectionName = "patients"

// TypesenseAdapter implements patient directory search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements PatientSearchRepository
var _ repositories.PatientSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	// Check if collection exists
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "phone", Type: "string", Optional: pointer.True()},
			{Name: "email", Type: "string", Optional: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "last_visit", Type: "int64"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index adds or updates a patient in the search index
func (a *TypesenseAdapter) Index(ctx context.Context, patient *entities.Patient) error {
	var lastVisit int64
	if !patient.LastVisit.IsZero() {
		lastVisit = patient.LastVisit.Unix()
	}

	document := map[string]interface{}{
		"id":         patient.ID,
		"name":       patient.Name,
		"phone":      patient.Phone,
		"email":      patient.Email,
		"status":     string(patient.Status),
		"last_visit": lastVisit,
		"created_at": patient.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index patient: %w", err)
	}

	return nil
}

// Delete removes a patient from the search index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete patient from index: %w", err)
	}
	return nil
}

// Search searches patients by name or phone
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]*entities.Patient, error) {
	if limit <= 0 {
		limit = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,phone"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}

	patients := []*entities.Patient{}
	if result.Hits == nil {
		return patients, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		// Typesense returns map[string]interface{}, so cast safely
		patient := &entities.Patient{
			ID:     doc["id"].(string),
			Name:   doc["name"].(string),
			Status: entities.PatientStatus(doc["status"].(string)),
		}
		if val, ok := doc["phone"].(string); ok {
			patient.Phone = val
		}
		if val, ok := doc["email"].(string); ok {
			patient.Email = val
		}
		if val, ok := doc["last_visit"].(float64); ok && val > 0 {
			patient.LastVisit = time.Unix(int64(val), 0).UTC()
		}

		patients = append(patients, patient)
	}

	return patients, nil
}
