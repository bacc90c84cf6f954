package entities

import (
	"strings"
	"time"
)

// PatientStatus represents the lifecycle status of a patient
type PatientStatus string

const (
	PatientStatusActive     PatientStatus = "active"
	PatientStatusInactive   PatientStatus = "inactive"
	PatientStatusDischarged PatientStatus = "discharged"
)

// CommunicationLog records a single contact with a patient
type CommunicationLog struct {
	ID         string    `json:"id" db:"id"`
	PatientID  string    `json:"patient_id" db:"patient_id"`
	Date       time.Time `json:"date" db:"date"`
	Type       string    `json:"type" db:"type"` // whatsapp, phone, email, in_person
	Notes      string    `json:"notes" db:"notes"`
	RecordedBy string    `json:"recorded_by" db:"recorded_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Patient represents a patient in the clinic.
// Patient records are owned by the patient-management collaborator;
// the monitoring engine reads them as an immutable snapshot.
type Patient struct {
	ID     string        `json:"id" db:"id"`
	Name   string        `json:"name" db:"name"`
	Email  string        `json:"email" db:"email"`
	Phone  string        `json:"phone" db:"phone"`
	Status PatientStatus `json:"status" db:"status"`

	// LastVisit is the zero time when the clinic has no visit on record
	// (or the upstream date could not be parsed).
	LastVisit time.Time `json:"last_visit" db:"last_visit"`

	// MedicalAlerts is free text maintained by the clinical staff.
	MedicalAlerts string `json:"medical_alerts" db:"medical_alerts"`

	// CommunicationLogs is ordered most recent first.
	CommunicationLogs []CommunicationLog `json:"communication_logs,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the patient is under active treatment
func (p *Patient) IsActive() bool {
	return p.Status == PatientStatusActive
}

// FirstName returns the patient's first name for message templating
func (p *Patient) FirstName() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ""
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

// LastCommunication returns the date of the most recent communication log,
// or false when the patient has never been contacted.
func (p *Patient) LastCommunication() (time.Time, bool) {
	if len(p.CommunicationLogs) == 0 {
		return time.Time{}, false
	}
	return p.CommunicationLogs[0].Date, true
}
