package repositories

import (
	"context"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
)

// TreatmentPlanRepository defines the interface for treatment plan lookups.
// A patient has at most one active plan; lookups may fail or come back
// empty, and callers must tolerate both.
type TreatmentPlanRepository interface {
	// GetActiveByPatientIDs retrieves the active plan of each listed
	// patient. Patients without a plan are simply absent from the result.
	GetActiveByPatientIDs(ctx context.Context, patientIDs []string) ([]*entities.TreatmentPlan, error)
}

// CommunicationLogRepository defines the interface for recording patient contacts
type CommunicationLogRepository interface {
	// Create records a communication with a patient
	Create(ctx context.Context, log *entities.CommunicationLog) error

	// ListByPatient retrieves a patient's communication logs, most recent first
	ListByPatient(ctx context.Context, patientID string, limit int) ([]*entities.CommunicationLog, error)
}
