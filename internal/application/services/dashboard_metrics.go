package services

import (
	"context"
	"math"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

// GetDashboardMetrics computes the clinic-wide aggregates shown on the
// dashboard: abandonment rate, adherence average and discharge forecast.
func (s *MonitoringService) GetDashboardMetrics(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.DashboardMetrics, error) {
	if patients == nil || appointments == nil {
		return nil, apperrors.NewValidationError("patients and appointments snapshots are required")
	}

	now := s.now()
	active := filterActive(patients)
	byPatient := appointmentsByPatient(appointments)
	plans := newPlanLoader(s.planRepo).plansFor(ctx, active)

	metrics := &entities.DashboardMetrics{
		TotalActivePatients: len(active),
	}

	abandoned := 0
	adherenceSum := 0
	adherenceSamples := 0
	horizon := now.AddDate(0, 0, 7)

	for _, p := range active {
		appts := byPatient[p.ID]

		if daysSinceLastVisit(now, p.LastVisit) > abandonmentThresholdDays && !hasFutureScheduled(appts, now) {
			abandoned++
		}

		plan, hasPlan := plans[p.ID]
		if !hasPlan {
			continue
		}

		// Adherence: completed sessions over completed plus overdue ones
		// (still marked scheduled but already in the past).
		attended := completedSessions(appts)
		overdue := 0
		for _, a := range appts {
			if a.Status == entities.AppointmentStatusScheduled && a.StartTime.Before(now) {
				overdue++
			}
		}
		rate := roundPct(100 * float64(attended) / float64(maxInt(1, attended+overdue)))
		if rate > 100 {
			rate = 100
		}
		adherenceSum += rate
		adherenceSamples++

		total := plan.TotalSessions()
		if total <= 0 {
			continue
		}

		remaining := maxInt(0, total-attended)
		if remaining > 0 {
			metrics.DischargeForecast.TotalScheduled++
			weeksToFinish := 0.0
			if plan.SessionsPerWeek() > 0 {
				weeksToFinish = float64(remaining) / float64(plan.SessionsPerWeek())
			}
			predicted := p.LastVisit.AddDate(0, 0, int(math.Ceil(weeksToFinish*7)))
			if !predicted.After(horizon) {
				metrics.DischargeForecast.NextSevenDays++
			}
		} else if !hasFutureScheduled(appts, now) {
			metrics.DischargeForecast.OverdueDischarges++
		}
	}

	if len(active) > 0 {
		metrics.AbandonmentRate = roundPct(100 * float64(abandoned) / float64(len(active)))
	}
	if adherenceSamples > 0 {
		metrics.AdherenceAverage = roundPct(float64(adherenceSum) / float64(adherenceSamples))
	}

	return metrics, nil
}

func roundPct(v float64) int {
	return int(math.Round(v))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
