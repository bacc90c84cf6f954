package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

// MonitoringService defines the interface for monitoring operations
type MonitoringService interface {
	GetCategorizedPatients(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.CategorizedPatients, error)
	GetIntelligentAlerts(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.IntelligentAlertSummary, error)
	GetDashboardMetrics(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.DashboardMetrics, error)
	GetPatientAttendanceSeries(appointments []*entities.Appointment) (map[string][]entities.PatientAttendancePoint, error)
	GetPatientTimelines(patients []*entities.Patient, appointments []*entities.Appointment) ([]entities.PatientTimelineEntry, error)
	GetQuickActionsData(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.QuickActionsData, error)
}

// MonitoringHandler handles monitoring dashboard requests
type MonitoringHandler struct {
	service         MonitoringService
	patientRepo     repositories.PatientRepository
	appointmentRepo repositories.AppointmentRepository
}

// NewMonitoringHandler creates a new monitoring handler
func NewMonitoringHandler(
	service MonitoringService,
	patientRepo repositories.PatientRepository,
	appointmentRepo repositories.AppointmentRepository,
) *MonitoringHandler {
	return &MonitoringHandler{
		service:         service,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
	}
}

// loadSnapshot loads the patient and appointment snapshots the engine
// computes from
func (h *MonitoringHandler) loadSnapshot(ctx context.Context) ([]*entities.Patient, []*entities.Appointment, error) {
	patients, err := h.patientRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	appointments, err := h.appointmentRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return patients, appointments, nil
}

// GetIntelligentAlerts handles GET /api/monitoring/alerts
func (h *MonitoringHandler) GetIntelligentAlerts(w http.ResponseWriter, r *http.Request) {
	patients, appointments, err := h.loadSnapshot(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	alerts, err := h.service.GetIntelligentAlerts(r.Context(), patients, appointments)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, alerts)
}

// GetCategorizedPatients handles GET /api/monitoring/categorized
func (h *MonitoringHandler) GetCategorizedPatients(w http.ResponseWriter, r *http.Request) {
	patients, appointments, err := h.loadSnapshot(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	categorized, err := h.service.GetCategorizedPatients(r.Context(), patients, appointments)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, categorized)
}

// GetDashboardMetrics handles GET /api/monitoring/metrics
func (h *MonitoringHandler) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	patients, appointments, err := h.loadSnapshot(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	metrics, err := h.service.GetDashboardMetrics(r.Context(), patients, appointments)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}

// GetPatientTimelines handles GET /api/monitoring/timelines
func (h *MonitoringHandler) GetPatientTimelines(w http.ResponseWriter, r *http.Request) {
	patients, appointments, err := h.loadSnapshot(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	timelines, err := h.service.GetPatientTimelines(patients, appointments)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"timelines": timelines,
		"count":     len(timelines),
	})
}

// GetAttendanceSeries handles GET /api/monitoring/attendance
func (h *MonitoringHandler) GetAttendanceSeries(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentRepo.ListAll(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	series, err := h.service.GetPatientAttendanceSeries(appointments)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, series)
}

// GetQuickActions handles GET /api/monitoring/quick-actions
func (h *MonitoringHandler) GetQuickActions(w http.ResponseWriter, r *http.Request) {
	patients, appointments, err := h.loadSnapshot(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	actions, err := h.service.GetQuickActionsData(r.Context(), patients, appointments)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, actions)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps AppError types to HTTP status codes
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}
