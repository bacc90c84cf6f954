package repositories

import (
	"context"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
)

// PatientRepository defines the interface for patient data operations.
// Patients are owned by the patient-management collaborator; the
// monitoring engine only reads snapshots through this interface.
type PatientRepository interface {
	// ListActive retrieves every patient under active treatment,
	// including communication logs and medical alerts
	ListActive(ctx context.Context) ([]*entities.Patient, error)

	// GetByID retrieves a patient by ID
	GetByID(ctx context.Context, id string) (*entities.Patient, error)

	// GetByIDs retrieves patients by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Patient, error)
}

// PatientSearchRepository defines the interface for the patient directory index
type PatientSearchRepository interface {
	// InitSchema ensures the search collection exists
	InitSchema(ctx context.Context) error

	// Index adds or updates a patient in the search index
	Index(ctx context.Context, patient *entities.Patient) error

	// Delete removes a patient from the search index
	Delete(ctx context.Context, id string) error

	// Search searches patients by name or phone
	Search(ctx context.Context, query string, limit int) ([]*entities.Patient, error)
}
