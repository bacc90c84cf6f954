package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

var patientColumns = []interface{}{
	"id", "name", "email", "phone", "status", "last_visit", "medical_alerts", "created_at", "updated_at",
}

// PatientAdapter implements the PatientRepository interface
type PatientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *postgres.Client) repositories.PatientRepository {
	return &PatientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListActive retrieves every active patient with communication logs attached
func (a *PatientAdapter) ListActive(ctx context.Context) ([]*entities.Patient, error) {
	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Where(goqu.Ex{"status": entities.PatientStatusActive}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build patients query", err)
	}

	patients, err := a.queryPatients(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if err := a.attachCommunicationLogs(ctx, patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// GetByID retrieves a patient by ID
func (a *PatientAdapter) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	patients, err := a.GetByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(patients) == 0 {
		return nil, apperrors.NewNotFoundError("patient not found")
	}
	return patients[0], nil
}

// GetByIDs retrieves patients by their IDs
func (a *PatientAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Patient, error) {
	if len(ids) == 0 {
		return []*entities.Patient{}, nil
	}

	query, args, err := a.db.Select(patientColumns...).
		From("patients").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build patients query", err)
	}

	patients, err := a.queryPatients(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if err := a.attachCommunicationLogs(ctx, patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (a *PatientAdapter) queryPatients(ctx context.Context, query string, args []interface{}) ([]*entities.Patient, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list patients", err)
	}
	defer rows.Close()

	patients := []*entities.Patient{}
	for rows.Next() {
		p := &entities.Patient{}
		var email, phone, medicalAlerts sql.NullString
		var lastVisit sql.NullTime

		if err := rows.Scan(
			&p.ID, &p.Name, &email, &phone, &p.Status,
			&lastVisit, &medicalAlerts, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan patient", err)
		}

		p.Email = email.String
		p.Phone = phone.String
		p.MedicalAlerts = medicalAlerts.String
		if lastVisit.Valid {
			p.LastVisit = lastVisit.Time
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate patients", err)
	}
	return patients, nil
}

// attachCommunicationLogs loads the logs of the given patients in one query,
// most recent first per patient.
func (a *PatientAdapter) attachCommunicationLogs(ctx context.Context, patients []*entities.Patient) error {
	if len(patients) == 0 {
		return nil
	}

	ids := make([]string, len(patients))
	byID := make(map[string]*entities.Patient, len(patients))
	for i, p := range patients {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	query, args, err := a.db.Select(
		"id", "patient_id", "date", "type", "notes", "recorded_by", "created_at",
	).From("communication_logs").
		Where(goqu.Ex{"patient_id": ids}).
		Order(goqu.I("date").Desc()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build communication logs query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to list communication logs", err)
	}
	defer rows.Close()

	for rows.Next() {
		l := entities.CommunicationLog{}
		var notes, recordedBy sql.NullString
		if err := rows.Scan(&l.ID, &l.PatientID, &l.Date, &l.Type, &notes, &recordedBy, &l.CreatedAt); err != nil {
			return apperrors.NewInternalError("failed to scan communication log", err)
		}
		l.Notes = notes.String
		l.RecordedBy = recordedBy.String
		if p, ok := byID[l.PatientID]; ok {
			p.CommunicationLogs = append(p.CommunicationLogs, l)
		}
	}
	return rows.Err()
}
