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

var appointmentColumns = []interface{}{
	"id", "patient_id", "start_time", "status", "notes", "created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListAll retrieves the full appointment snapshot
func (a *AppointmentAdapter) ListAll(ctx context.Context) ([]*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Order(goqu.I("start_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build appointments query", err)
	}
	return a.queryAppointments(ctx, query, args)
}

// ListByPatient retrieves appointments for a patient
func (a *AppointmentAdapter) ListByPatient(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"patient_id": patientID})

	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.From != nil {
		ds = ds.Where(goqu.I("start_time").Gte(*filter.From))
	}
	if filter.To != nil {
		ds = ds.Where(goqu.I("start_time").Lt(*filter.To))
	}

	ds = ds.Order(goqu.I("start_time").Asc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build appointments query", err)
	}
	return a.queryAppointments(ctx, query, args)
}

func (a *AppointmentAdapter) queryAppointments(ctx context.Context, query string, args []interface{}) ([]*entities.Appointment, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := []*entities.Appointment{}
	for rows.Next() {
		appointment := &entities.Appointment{}
		var notes sql.NullString

		if err := rows.Scan(
			&appointment.ID, &appointment.PatientID, &appointment.StartTime,
			&appointment.Status, &notes, &appointment.CreatedAt, &appointment.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}

		appointment.Notes = notes.String
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate appointments", err)
	}
	return appointments, nil
}
