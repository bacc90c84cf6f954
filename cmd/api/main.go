package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fisioflow/clinicops/backend/internal/adapters/cache"
	"github.com/fisioflow/clinicops/backend/internal/adapters/database"
	"github.com/fisioflow/clinicops/backend/internal/adapters/search"
	"github.com/fisioflow/clinicops/backend/internal/api/handlers"
	"github.com/fisioflow/clinicops/backend/internal/api/middleware"
	"github.com/fisioflow/clinicops/backend/internal/api/routes"
	"github.com/fisioflow/clinicops/backend/internal/application/services"
	"github.com/fisioflow/clinicops/backend/internal/domain/providers"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/postgres"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/redis"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/clients/typesense"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/notifications"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/observability"
	"github.com/fisioflow/clinicops/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		// Continue without Redis - the application can work without caching
		log.Warn().Err(err).Msg("Failed to initialize Redis client")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense client")
		typesenseClient = nil
	}

	// Initialize adapters
	patientAdapter := database.NewPatientAdapter(pgClient)
	appointmentAdapter := database.NewAppointmentAdapter(pgClient)
	planAdapter := database.NewTreatmentPlanAdapter(pgClient)
	logAdapter := database.NewCommunicationLogAdapter(pgClient)

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var searchHandler *handlers.PatientSearchHandler
	if typesenseClient != nil {
		searchAdapter := search.NewTypesenseAdapter(typesenseClient)
		if err := searchAdapter.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
		searchHandler = handlers.NewPatientSearchHandler(searchAdapter)
	}

	// Initialize services
	monitoringService := services.NewMonitoringService(planAdapter)

	var outreachHandler *handlers.OutreachHandler
	if cfg.WhatsApp.Enabled {
		sender, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp)
		if err != nil {
			log.Warn().Err(err).Msg("WhatsApp outreach disabled")
		} else {
			outreachService := services.NewOutreachService(
				monitoringService,
				patientAdapter,
				appointmentAdapter,
				logAdapter,
				sender,
			)
			outreachHandler = handlers.NewOutreachHandler(outreachService)
			log.Info().Msg("WhatsApp outreach enabled")
		}
	}

	// Initialize handlers
	monitoringHandler := handlers.NewMonitoringHandler(
		monitoringService,
		patientAdapter,
		appointmentAdapter,
	)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Info().Msg("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		monitoringHandler,
		outreachHandler,
		searchHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
