package routes

import (
	"net/http"

	"github.com/fisioflow/clinicops/backend/internal/api/handlers"
	"github.com/fisioflow/clinicops/backend/internal/api/middleware"
	"github.com/fisioflow/clinicops/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	monitoringHandler    *handlers.MonitoringHandler
	outreachHandler      *handlers.OutreachHandler
	patientSearchHandler *handlers.PatientSearchHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	monitoringHandler *handlers.MonitoringHandler,
	outreachHandler *handlers.OutreachHandler,
	patientSearchHandler *handlers.PatientSearchHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                  http.NewServeMux(),
		monitoringHandler:    monitoringHandler,
		outreachHandler:      outreachHandler,
		patientSearchHandler: patientSearchHandler,
		cacheMiddleware:      cacheMiddleware,
		metrics:              metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Monitoring endpoints
	r.mux.HandleFunc("GET /api/monitoring/alerts", r.monitoringHandler.GetIntelligentAlerts)
	r.mux.HandleFunc("GET /api/monitoring/categorized", r.monitoringHandler.GetCategorizedPatients)
	r.mux.HandleFunc("GET /api/monitoring/metrics", r.monitoringHandler.GetDashboardMetrics)
	r.mux.HandleFunc("GET /api/monitoring/timelines", r.monitoringHandler.GetPatientTimelines)
	r.mux.HandleFunc("GET /api/monitoring/attendance", r.monitoringHandler.GetAttendanceSeries)
	r.mux.HandleFunc("GET /api/monitoring/quick-actions", r.monitoringHandler.GetQuickActions)

	// Outreach endpoints
	if r.outreachHandler != nil {
		r.mux.HandleFunc("POST /api/outreach/whatsapp", r.outreachHandler.SendWhatsAppQueue)
	}

	// Patient directory endpoints
	if r.patientSearchHandler != nil {
		r.mux.HandleFunc("GET /api/patients/search", r.patientSearchHandler.SearchPatients)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
