package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

const whatsappGreetingTemplate = "Olá %s! Sentimos sua falta na clínica. Podemos agendar sua próxima sessão?"

// GetQuickActionsData derives the four outreach work queues. The contact
// and reschedule queues project the classifier's abandonment and high risk
// buckets; the contact-log and observation queues cover every patient in
// the snapshot. No alert logic is re-derived here.
func (s *MonitoringService) GetQuickActionsData(ctx context.Context, patients []*entities.Patient, appointments []*entities.Appointment) (*entities.QuickActionsData, error) {
	if patients == nil || appointments == nil {
		return nil, apperrors.NewValidationError("patients and appointments snapshots are required")
	}

	categorized, err := s.GetCategorizedPatients(ctx, patients, appointments)
	if err != nil {
		return nil, err
	}

	alerted := make([]entities.AlertPatient, 0, len(categorized.Abandonment)+len(categorized.HighRisk))
	alerted = append(alerted, categorized.Abandonment...)
	alerted = append(alerted, categorized.HighRisk...)

	data := &entities.QuickActionsData{
		WhatsAppContacts:      []entities.WhatsAppContact{},
		RescheduleSuggestions: []entities.RescheduleSuggestion{},
		ContactLogsPending:    []entities.PendingContactLog{},
		Observations:          []entities.ObservationEntry{},
	}

	for _, ap := range alerted {
		data.WhatsAppContacts = append(data.WhatsAppContacts, entities.WhatsAppContact{
			PatientID: ap.ID,
			Name:      ap.Name,
			Phone:     ap.Phone,
			Message:   fmt.Sprintf(whatsappGreetingTemplate, ap.FirstName()),
		})

		lastVisit := ""
		if !ap.LastVisit.IsZero() {
			lastVisit = ap.LastVisit.Format("02/01/2006")
		}
		data.RescheduleSuggestions = append(data.RescheduleSuggestions, entities.RescheduleSuggestion{
			PatientID: ap.ID,
			Name:      ap.Name,
			LastVisit: lastVisit,
			Reason:    ap.AlertReason,
		})
	}

	for _, p := range patients {
		pending := entities.PendingContactLog{PatientID: p.ID, Name: p.Name}
		if last, ok := p.LastCommunication(); ok {
			date := last
			pending.LastCommunication = &date
		}
		data.ContactLogsPending = append(data.ContactLogsPending, pending)

		if summary := strings.TrimSpace(p.MedicalAlerts); summary != "" {
			data.Observations = append(data.Observations, entities.ObservationEntry{
				PatientID: p.ID,
				Name:      p.Name,
				Summary:   summary,
			})
		}
	}

	return data, nil
}
