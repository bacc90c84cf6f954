package services

import (
	"sort"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

// GetPatientTimelines builds the triage timeline: one entry per active
// patient, sorted descending by days since last visit so the most overdue
// patients come first. The ordering is a contract with the triage UI; ties
// keep their input order.
func (s *MonitoringService) GetPatientTimelines(patients []*entities.Patient, appointments []*entities.Appointment) ([]entities.PatientTimelineEntry, error) {
	if patients == nil || appointments == nil {
		return nil, apperrors.NewValidationError("patients and appointments snapshots are required")
	}

	now := s.now()
	byPatient := appointmentsByPatient(appointments)

	entries := []entities.PatientTimelineEntry{}
	for _, p := range filterActive(patients) {
		days := daysSinceLastVisit(now, p.LastVisit)
		next := earliestFutureScheduled(byPatient[p.ID], now)

		entry := entities.PatientTimelineEntry{
			PatientID:          p.ID,
			PatientName:        p.Name,
			LastVisit:          p.LastVisit,
			DaysSinceLastVisit: days,
			Status:             entities.TimelineStatusOnTrack,
		}
		if next != nil {
			visit := next.StartTime
			entry.NextVisit = &visit
		}

		switch {
		case days > abandonmentThresholdDays && next == nil:
			entry.Status = entities.TimelineStatusAbandonment
		case days >= riskThresholdDays:
			entry.Status = entities.TimelineStatusRisk
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DaysSinceLastVisit > entries[j].DaysSinceLastVisit
	})
	return entries, nil
}
