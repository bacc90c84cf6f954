package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

// CommunicationLogAdapter implements the CommunicationLogRepository interface
type CommunicationLogAdapter struct {
	db *sqlx.DB
}

// NewCommunicationLogAdapter creates a new communication log adapter
func NewCommunicationLogAdapter(client *postgres.Client) repositories.CommunicationLogRepository {
	return &CommunicationLogAdapter{
		db: sqlx.NewDb(client.DB(), "postgres"),
	}
}

// Create records a communication with a patient
func (a *CommunicationLogAdapter) Create(ctx context.Context, log *entities.CommunicationLog) error {
	query := `
		INSERT INTO communication_logs (id, patient_id, date, type, notes, recorded_by, created_at)
		VALUES (:id, :patient_id, :date, :type, :notes, :recorded_by, NOW())`

	if _, err := a.db.NamedExecContext(ctx, query, log); err != nil {
		return apperrors.NewInternalError("failed to create communication log", err)
	}
	return nil
}

// ListByPatient retrieves a patient's communication logs, most recent first
func (a *CommunicationLogAdapter) ListByPatient(ctx context.Context, patientID string, limit int) ([]*entities.CommunicationLog, error) {
	query := `
		SELECT id, patient_id, date, type, notes, recorded_by, created_at
		FROM communication_logs
		WHERE patient_id = $1
		ORDER BY date DESC
		LIMIT $2`

	logs := []*entities.CommunicationLog{}
	if err := a.db.SelectContext(ctx, &logs, query, patientID, limit); err != nil {
		return nil, apperrors.NewInternalError("failed to list communication logs", err)
	}
	return logs, nil
}
