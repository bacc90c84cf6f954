package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	"github.com/fisioflow/clinicops/backend/internal/domain/providers"
	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
	"github.com/fisioflow/clinicops/backend/pkg/retry"
)

// OutreachReport summarizes one outreach run
type OutreachReport struct {
	Queued  int      `json:"queued"`
	Sent    int      `json:"sent"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"` // patient IDs
}

// OutreachService sends the WhatsApp contact queue produced by the
// monitoring engine and records a communication log per delivered message.
type OutreachService struct {
	monitoring      *MonitoringService
	patientRepo     repositories.PatientRepository
	appointmentRepo repositories.AppointmentRepository
	logRepo         repositories.CommunicationLogRepository
	sender          providers.MessageSender
}

// NewOutreachService creates a new outreach service
func NewOutreachService(
	monitoring *MonitoringService,
	patientRepo repositories.PatientRepository,
	appointmentRepo repositories.AppointmentRepository,
	logRepo repositories.CommunicationLogRepository,
	sender providers.MessageSender,
) *OutreachService {
	return &OutreachService{
		monitoring:      monitoring,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		logRepo:         logRepo,
		sender:          sender,
	}
}

// SendWhatsAppQueue computes the current contact queue and sends every
// entry that has a phone number. Send failures are isolated per patient;
// the run always completes and reports what happened.
func (s *OutreachService) SendWhatsAppQueue(ctx context.Context) (*OutreachReport, error) {
	if s.sender == nil {
		return nil, apperrors.NewValidationError("message sender is not configured")
	}

	patients, err := s.patientRepo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load patients", err)
	}
	appointments, err := s.appointmentRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load appointments", err)
	}

	actions, err := s.monitoring.GetQuickActionsData(ctx, patients, appointments)
	if err != nil {
		return nil, err
	}

	report := &OutreachReport{Queued: len(actions.WhatsAppContacts)}
	for _, contact := range actions.WhatsAppContacts {
		if contact.Phone == "" {
			report.Skipped++
			continue
		}

		if err := s.sendWithRetry(ctx, contact); err != nil {
			log.Error().Err(err).Str("patient_id", contact.PatientID).Msg("whatsapp outreach failed")
			report.Failed = append(report.Failed, contact.PatientID)
			continue
		}
		report.Sent++

		commLog := &entities.CommunicationLog{
			ID:         uuid.New().String(),
			PatientID:  contact.PatientID,
			Date:       time.Now(),
			Type:       "whatsapp",
			Notes:      contact.Message,
			RecordedBy: "monitoramento",
		}
		if err := s.logRepo.Create(ctx, commLog); err != nil {
			// The message went out; a missing log entry should not fail the run.
			log.Warn().Err(err).Str("patient_id", contact.PatientID).Msg("failed to record communication log")
		}
	}

	return report, nil
}

func (s *OutreachService) sendWithRetry(ctx context.Context, contact entities.WhatsAppContact) error {
	return retry.Do(ctx, retry.QuickConfig(), func() error {
		_, err := s.sender.SendText(ctx, contact.Phone, contact.Message)
		return err
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).
			Str("patient_id", contact.PatientID).Msg("whatsapp send retrying")
	})
}
