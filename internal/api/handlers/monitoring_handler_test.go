package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fisioflow/clinicops/backend/internal/api/handlers"
	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

// MockMonitoringService defines the mock monitoring service
type MockMonitoringService struct {
	mock.Mock
}

func (m *MockMonitoringService) GetCategorizedPatients(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.CategorizedPatients, error) {
	args := m.Called(ctx, patients, appointments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CategorizedPatients), args.Error(1)
}

func (m *MockMonitoringService) GetIntelligentAlerts(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.IntelligentAlertSummary, error) {
	args := m.Called(ctx, patients, appointments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.IntelligentAlertSummary), args.Error(1)
}

func (m *MockMonitoringService) GetDashboardMetrics(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.DashboardMetrics, error) {
	args := m.Called(ctx, patients, appointments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DashboardMetrics), args.Error(1)
}

func (m *MockMonitoringService) GetPatientAttendanceSeries(appointments []*entities.Appointment) (map[string][]entities.PatientAttendancePoint, error) {
	args := m.Called(appointments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]entities.PatientAttendancePoint), args.Error(1)
}

func (m *MockMonitoringService) GetPatientTimelines(patients []*entities.Patient, appointments []*entities.Appointment) ([]entities.PatientTimelineEntry, error) {
	args := m.Called(patients, appointments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PatientTimelineEntry), args.Error(1)
}

func (m *MockMonitoringService) GetQuickActionsData(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.QuickActionsData, error) {
	args := m.Called(ctx, patients, appointments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.QuickActionsData), args.Error(1)
}

// MockPatientRepository defines the mock patient repository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) ListActive(ctx context.Context) ([]*entities.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Patient, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Patient), args.Error(1)
}

// MockAppointmentRepository defines the mock appointment repository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) ListAll(ctx context.Context) ([]*entities.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListByPatient(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	args := m.Called(ctx, patientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func newHandlerFixture() (*MockMonitoringService, *MockPatientRepository, *MockAppointmentRepository, *handlers.MonitoringHandler) {
	service := new(MockMonitoringService)
	patientRepo := new(MockPatientRepository)
	appointmentRepo := new(MockAppointmentRepository)
	handler := handlers.NewMonitoringHandler(service, patientRepo, appointmentRepo)
	return service, patientRepo, appointmentRepo, handler
}

func TestMonitoringHandler_GetIntelligentAlerts(t *testing.T) {
	patients := []*entities.Patient{
		{ID: "p1", Name: "Ana Lima", Status: entities.PatientStatusActive, LastVisit: time.Now().AddDate(0, 0, -9)},
	}
	appointments := []*entities.Appointment{}

	t.Run("returns alert summary", func(t *testing.T) {
		service, patientRepo, appointmentRepo, handler := newHandlerFixture()

		patientRepo.On("ListActive", mock.Anything).Return(patients, nil)
		appointmentRepo.On("ListAll", mock.Anything).Return(appointments, nil)
		service.On("GetIntelligentAlerts", mock.Anything, patients, appointments).Return(&entities.IntelligentAlertSummary{
			Abandonment: []entities.AlertPatient{
				{Patient: *patients[0], AlertType: entities.AlertTypeAbandonment, AlertReason: "Sem comparecimento há 9 dias e sem agendamento futuro"},
			},
			HighRisk:         []entities.AlertPatient{},
			Attention:        []entities.AlertPatient{},
			NearDischarge:    []entities.AlertPatient{},
			PendingDischarge: []entities.AlertPatient{},
		}, nil)

		req := httptest.NewRequest("GET", "/api/monitoring/alerts", nil)
		w := httptest.NewRecorder()

		handler.GetIntelligentAlerts(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp entities.IntelligentAlertSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Abandonment, 1)
		assert.Equal(t, "p1", resp.Abandonment[0].ID)
		assert.Contains(t, resp.Abandonment[0].AlertReason, "9 dias")
		service.AssertExpectations(t)
	})

	t.Run("returns 500 when snapshot load fails", func(t *testing.T) {
		_, patientRepo, _, handler := newHandlerFixture()

		patientRepo.On("ListActive", mock.Anything).Return(nil, errors.New("db down"))

		req := httptest.NewRequest("GET", "/api/monitoring/alerts", nil)
		w := httptest.NewRecorder()

		handler.GetIntelligentAlerts(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		service, patientRepo, appointmentRepo, handler := newHandlerFixture()

		patientRepo.On("ListActive", mock.Anything).Return(patients, nil)
		appointmentRepo.On("ListAll", mock.Anything).Return(appointments, nil)
		service.On("GetIntelligentAlerts", mock.Anything, patients, appointments).
			Return(nil, apperrors.NewValidationError("patients and appointments snapshots are required"))

		req := httptest.NewRequest("GET", "/api/monitoring/alerts", nil)
		w := httptest.NewRecorder()

		handler.GetIntelligentAlerts(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMonitoringHandler_GetDashboardMetrics(t *testing.T) {
	service, patientRepo, appointmentRepo, handler := newHandlerFixture()

	patients := []*entities.Patient{}
	appointments := []*entities.Appointment{}

	patientRepo.On("ListActive", mock.Anything).Return(patients, nil)
	appointmentRepo.On("ListAll", mock.Anything).Return(appointments, nil)
	service.On("GetDashboardMetrics", mock.Anything, patients, appointments).Return(&entities.DashboardMetrics{
		TotalActivePatients: 12,
		AbandonmentRate:     25,
		AdherenceAverage:    80,
	}, nil)

	req := httptest.NewRequest("GET", "/api/monitoring/metrics", nil)
	w := httptest.NewRecorder()

	handler.GetDashboardMetrics(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp entities.DashboardMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.TotalActivePatients)
	assert.Equal(t, 25, resp.AbandonmentRate)
}

func TestMonitoringHandler_GetAttendanceSeries(t *testing.T) {
	service, _, appointmentRepo, handler := newHandlerFixture()

	appointments := []*entities.Appointment{
		{ID: "a1", PatientID: "p1", StartTime: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), Status: entities.AppointmentStatusCompleted},
	}

	appointmentRepo.On("ListAll", mock.Anything).Return(appointments, nil)
	service.On("GetPatientAttendanceSeries", appointments).Return(map[string][]entities.PatientAttendancePoint{
		"p1": {{Date: "2025-03-01", Status: entities.AppointmentStatusCompleted}},
	}, nil)

	req := httptest.NewRequest("GET", "/api/monitoring/attendance", nil)
	w := httptest.NewRecorder()

	handler.GetAttendanceSeries(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]entities.PatientAttendancePoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp["p1"], 1)
	assert.Equal(t, "2025-03-01", resp["p1"][0].Date)
}

func TestMonitoringHandler_GetQuickActions(t *testing.T) {
	service, patientRepo, appointmentRepo, handler := newHandlerFixture()

	patients := []*entities.Patient{}
	appointments := []*entities.Appointment{}

	patientRepo.On("ListActive", mock.Anything).Return(patients, nil)
	appointmentRepo.On("ListAll", mock.Anything).Return(appointments, nil)
	service.On("GetQuickActionsData", mock.Anything, patients, appointments).Return(&entities.QuickActionsData{
		WhatsAppContacts: []entities.WhatsAppContact{
			{PatientID: "p1", Name: "Carlos Pereira", Phone: "+5511988887777", Message: "Olá Carlos! Sentimos sua falta na clínica. Podemos agendar sua próxima sessão?"},
		},
		RescheduleSuggestions: []entities.RescheduleSuggestion{},
		ContactLogsPending:    []entities.PendingContactLog{},
		Observations:          []entities.ObservationEntry{},
	}, nil)

	req := httptest.NewRequest("GET", "/api/monitoring/quick-actions", nil)
	w := httptest.NewRecorder()

	handler.GetQuickActions(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp entities.QuickActionsData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.WhatsAppContacts, 1)
	assert.Contains(t, resp.WhatsAppContacts[0].Message, "Olá Carlos!")
}
