package services

import (
	"context"
	"time"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

// MonitoringService computes alert buckets, dashboard metrics, attendance
// series, triage timelines and outreach queues from a caller-supplied
// snapshot of patients and appointments. Every call is a pure function of
// its inputs plus the per-pass treatment plan lookup; no state survives
// between calls.
type MonitoringService struct {
	planRepo repositories.TreatmentPlanRepository
	now      func() time.Time
}

// NewMonitoringService creates a new monitoring service
func NewMonitoringService(planRepo repositories.TreatmentPlanRepository) *MonitoringService {
	return &MonitoringService{
		planRepo: planRepo,
		now:      time.Now,
	}
}

// GetCategorizedPatients classifies every active patient into exactly one
// of the abandonment, high risk, attention or regular buckets.
func (s *MonitoringService) GetCategorizedPatients(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.CategorizedPatients, error) {
	if patients == nil || appointments == nil {
		return nil, apperrors.NewValidationError("patients and appointments snapshots are required")
	}

	active := filterActive(patients)
	plans := newPlanLoader(s.planRepo).plansFor(ctx, active)
	return s.categorize(active, appointmentsByPatient(appointments), plans), nil
}

// GetIntelligentAlerts returns the full alert summary: the primary buckets
// plus the independently computed pending discharge list. NearDischarge
// mirrors Attention.
func (s *MonitoringService) GetIntelligentAlerts(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.IntelligentAlertSummary, error) {
	if patients == nil || appointments == nil {
		return nil, apperrors.NewValidationError("patients and appointments snapshots are required")
	}

	now := s.now()
	active := filterActive(patients)
	byPatient := appointmentsByPatient(appointments)

	// One loader serves both passes, so no patient's plan is fetched twice.
	plans := newPlanLoader(s.planRepo).plansFor(ctx, active)
	categorized := s.categorize(active, byPatient, plans)

	pending := []entities.AlertPatient{}
	for _, p := range active {
		reason, ok := pendingDischargeReason(byPatient[p.ID], plans[p.ID], now)
		if !ok {
			continue
		}
		pending = append(pending, entities.AlertPatient{
			Patient:     *p,
			AlertType:   entities.AlertTypePendingDischarge,
			AlertReason: reason,
		})
	}

	return &entities.IntelligentAlertSummary{
		Abandonment:      categorized.Abandonment,
		HighRisk:         categorized.HighRisk,
		Attention:        categorized.Attention,
		NearDischarge:    categorized.Attention,
		PendingDischarge: pending,
	}, nil
}

// categorize folds the priority classifier over the active patients in
// input order and partitions the outcomes into the four buckets.
func (s *MonitoringService) categorize(active []*entities.Patient, byPatient map[string][]*entities.Appointment, plans map[string]*entities.TreatmentPlan) *entities.CategorizedPatients {
	now := s.now()
	out := &entities.CategorizedPatients{
		Abandonment: []entities.AlertPatient{},
		HighRisk:    []entities.AlertPatient{},
		Attention:   []entities.AlertPatient{},
		Regular:     []entities.Patient{},
	}

	for _, p := range active {
		c := classifyPatient(p, byPatient[p.ID], plans[p.ID], now)
		switch c.kind {
		case kindAbandonment:
			out.Abandonment = append(out.Abandonment, entities.AlertPatient{
				Patient: *p, AlertType: entities.AlertTypeAbandonment, AlertReason: c.reason,
			})
		case kindHighRisk:
			out.HighRisk = append(out.HighRisk, entities.AlertPatient{
				Patient: *p, AlertType: entities.AlertTypeHighRisk, AlertReason: c.reason,
			})
		case kindAttention:
			out.Attention = append(out.Attention, entities.AlertPatient{
				Patient: *p, AlertType: entities.AlertTypeAttention, AlertReason: c.reason,
			})
		default:
			out.Regular = append(out.Regular, *p)
		}
	}
	return out
}
