package main

import (
	"context"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fisioflow/clinicops/backend/internal/adapters/search"
	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/postgres"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/typesense"
	"github.com/fisioflow/clinicops/backend/pkg/config"
)

// Seeds a demo clinic: a mix of regular, overdue, no-show-prone and
// near-discharge patients so every dashboard panel has data.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	var searchRepo *search.TypesenseAdapter
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to init search schema")
		}
	}

	db := goqu.New("postgres", pgClient.DB())
	ctx := context.Background()
	now := time.Now()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				communication_logs,
				appointments,
				treatment_plans,
				patients
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	type seedPatient struct {
		patient entities.Patient
		plan    *entities.TreatmentPlan
		appts   []entities.Appointment
		logs    []entities.CommunicationLog
	}

	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	seeds := []seedPatient{
		{
			// Regular: recent visit, future booking
			patient: entities.Patient{
				ID: uuid.New().String(), Name: "Mariana Costa", Phone: "+5511911110001",
				Email: "mariana.costa@example.com", Status: entities.PatientStatusActive,
				LastVisit: day(-2),
			},
			plan: &entities.TreatmentPlan{
				ID: uuid.New().String(), DurationWeeks: 8, FrequencyPerWeek: 2, Active: true,
			},
			appts: []entities.Appointment{
				{StartTime: day(-2), Status: entities.AppointmentStatusCompleted},
				{StartTime: day(3), Status: entities.AppointmentStatusScheduled},
			},
		},
		{
			// Abandonment: overdue with no future booking
			patient: entities.Patient{
				ID: uuid.New().String(), Name: "Carlos Pereira", Phone: "+5511911110002",
				Email: "carlos.pereira@example.com", Status: entities.PatientStatusActive,
				LastVisit: day(-11),
			},
			appts: []entities.Appointment{
				{StartTime: day(-11), Status: entities.AppointmentStatusCompleted},
			},
			logs: []entities.CommunicationLog{
				{Date: day(-5), Type: "phone", Notes: "Sem resposta", RecordedBy: "recepção"},
			},
		},
		{
			// High risk: two consecutive no-shows
			patient: entities.Patient{
				ID: uuid.New().String(), Name: "Ana Lima", Phone: "+5511911110003",
				Email: "ana.lima@example.com", Status: entities.PatientStatusActive,
				LastVisit: day(-3),
			},
			plan: &entities.TreatmentPlan{
				ID: uuid.New().String(), DurationWeeks: 10, FrequencyPerWeek: 2, Active: true,
			},
			appts: []entities.Appointment{
				{StartTime: day(-8), Status: entities.AppointmentStatusCompleted},
				{StartTime: day(-5), Status: entities.AppointmentStatusNoShow},
				{StartTime: day(-2), Status: entities.AppointmentStatusNoShow},
				{StartTime: day(4), Status: entities.AppointmentStatusScheduled},
			},
		},
		{
			// Near discharge: 17 of 20 sessions completed
			patient: entities.Patient{
				ID: uuid.New().String(), Name: "João Souza", Phone: "+5511911110004",
				Email: "joao.souza@example.com", Status: entities.PatientStatusActive,
				LastVisit:     day(-1),
				MedicalAlerts: "Hipertensão: medir pressão antes da sessão",
			},
			plan: &entities.TreatmentPlan{
				ID: uuid.New().String(), DurationWeeks: 10, FrequencyPerWeek: 2, Active: true,
			},
		},
		{
			// Pending discharge: plan complete, nothing booked
			patient: entities.Patient{
				ID: uuid.New().String(), Name: "Beatriz Nunes", Phone: "+5511911110005",
				Email: "beatriz.nunes@example.com", Status: entities.PatientStatusActive,
				LastVisit: day(-3),
			},
			plan: &entities.TreatmentPlan{
				ID: uuid.New().String(), DurationWeeks: 6, FrequencyPerWeek: 2, Active: true,
			},
		},
		{
			// Inactive: must never appear in monitoring output
			patient: entities.Patient{
				ID: uuid.New().String(), Name: "Pedro Alves", Phone: "+5511911110006",
				Email: "pedro.alves@example.com", Status: entities.PatientStatusDischarged,
				LastVisit: day(-30),
			},
		},
	}

	// João: 17 completed sessions, twice a week
	joao := &seeds[3]
	for i := 0; i < 17; i++ {
		joao.appts = append(joao.appts, entities.Appointment{
			StartTime: day(-60 + i*3), Status: entities.AppointmentStatusCompleted,
		})
	}
	joao.appts = append(joao.appts, entities.Appointment{
		StartTime: day(2), Status: entities.AppointmentStatusScheduled,
	})

	// Beatriz: all 12 sessions completed
	beatriz := &seeds[4]
	for i := 0; i < 12; i++ {
		beatriz.appts = append(beatriz.appts, entities.Appointment{
			StartTime: day(-45 + i*3), Status: entities.AppointmentStatusCompleted,
		})
	}

	patientsSeeded, apptsSeeded := 0, 0
	for _, s := range seeds {
		p := s.patient
		_, err := db.Insert("patients").Rows(goqu.Record{
			"id": p.ID, "name": p.Name, "email": p.Email, "phone": p.Phone,
			"status": p.Status, "last_visit": nullableTime(p.LastVisit),
			"medical_alerts": p.MedicalAlerts, "created_at": now, "updated_at": now,
		}).Executor().ExecContext(ctx)
		if err != nil {
			log.Error().Err(err).Str("patient", p.Name).Msg("Failed to seed patient")
			continue
		}
		patientsSeeded++

		if s.plan != nil {
			_, err := db.Insert("treatment_plans").Rows(goqu.Record{
				"id": s.plan.ID, "patient_id": p.ID,
				"duration_weeks": s.plan.DurationWeeks, "frequency_per_week": s.plan.FrequencyPerWeek,
				"active": s.plan.Active, "created_at": now, "updated_at": now,
			}).Executor().ExecContext(ctx)
			if err != nil {
				log.Error().Err(err).Str("patient", p.Name).Msg("Failed to seed treatment plan")
			}
		}

		for _, a := range s.appts {
			_, err := db.Insert("appointments").Rows(goqu.Record{
				"id": uuid.New().String(), "patient_id": p.ID,
				"start_time": a.StartTime, "status": a.Status, "notes": a.Notes,
				"created_at": now, "updated_at": now,
			}).Executor().ExecContext(ctx)
			if err != nil {
				log.Error().Err(err).Str("patient", p.Name).Msg("Failed to seed appointment")
				continue
			}
			apptsSeeded++
		}

		for _, l := range s.logs {
			_, err := db.Insert("communication_logs").Rows(goqu.Record{
				"id": uuid.New().String(), "patient_id": p.ID,
				"date": l.Date, "type": l.Type, "notes": l.Notes,
				"recorded_by": l.RecordedBy, "created_at": now,
			}).Executor().ExecContext(ctx)
			if err != nil {
				log.Error().Err(err).Str("patient", p.Name).Msg("Failed to seed communication log")
			}
		}

		if searchRepo != nil {
			if err := searchRepo.Index(ctx, &p); err != nil {
				log.Warn().Err(err).Str("patient", p.Name).Msg("Failed to index patient")
			}
		}
	}

	log.Info().
		Int("patients", patientsSeeded).
		Int("appointments", apptsSeeded).
		Msg("Seed complete")
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
