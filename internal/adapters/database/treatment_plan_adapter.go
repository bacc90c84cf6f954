package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

// TreatmentPlanAdapter implements the TreatmentPlanRepository interface
type TreatmentPlanAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTreatmentPlanAdapter creates a new treatment plan adapter
func NewTreatmentPlanAdapter(client *postgres.Client) repositories.TreatmentPlanRepository {
	return &TreatmentPlanAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetActiveByPatientIDs retrieves the active plan of each listed patient.
// Patients without an active plan are absent from the result.
func (a *TreatmentPlanAdapter) GetActiveByPatientIDs(ctx context.Context, patientIDs []string) ([]*entities.TreatmentPlan, error) {
	if len(patientIDs) == 0 {
		return []*entities.TreatmentPlan{}, nil
	}

	query, args, err := a.db.Select(
		"id", "patient_id", "duration_weeks", "frequency_per_week", "active", "created_at", "updated_at",
	).From("treatment_plans").
		Where(goqu.Ex{
			"patient_id": patientIDs,
			"active":     true,
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build treatment plans query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list treatment plans", err)
	}
	defer rows.Close()

	plans := []*entities.TreatmentPlan{}
	for rows.Next() {
		plan := &entities.TreatmentPlan{}
		if err := rows.Scan(
			&plan.ID, &plan.PatientID, &plan.DurationWeeks,
			&plan.FrequencyPerWeek, &plan.Active, &plan.CreatedAt, &plan.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan treatment plan", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate treatment plans", err)
	}
	return plans, nil
}
