package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fisioflow/clinicops/backend/internal/adapters/database"
	"github.com/fisioflow/clinicops/backend/internal/adapters/search"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/postgres"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/typesense"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/observability"
	"github.com/fisioflow/clinicops/backend/pkg/config"
)

// One-shot sync of the patient directory into the Typesense index.
// Run after seeding or on a schedule to keep search results fresh.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger("clinicops-indexer", cfg.Env)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Typesense client")
	}

	patientAdapter := database.NewPatientAdapter(pgClient)
	searchAdapter := search.NewTypesenseAdapter(typesenseClient)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := searchAdapter.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to init Typesense schema")
	}

	patients, err := patientAdapter.ListActive(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load patients")
	}

	start := time.Now()
	indexed, failed := 0, 0
	for _, patient := range patients {
		if err := searchAdapter.Index(ctx, patient); err != nil {
			log.Error().Err(err).Str("patient_id", patient.ID).Msg("Failed to index patient")
			failed++
			continue
		}
		indexed++
	}

	log.Info().
		Int("indexed", indexed).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Patient index sync complete")
}
