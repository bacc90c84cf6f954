package entities

import (
	"time"
)

// TreatmentPlan defines the prescribed duration and weekly frequency of a
// patient's treatment. At most one plan is active per patient.
type TreatmentPlan struct {
	ID               string    `json:"id" db:"id"`
	PatientID        string    `json:"patient_id" db:"patient_id"`
	DurationWeeks    int       `json:"duration_weeks" db:"duration_weeks"`
	FrequencyPerWeek int       `json:"frequency_per_week" db:"frequency_per_week"`
	Active           bool      `json:"active" db:"active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// TotalSessions returns the total number of sessions prescribed by the plan
func (p *TreatmentPlan) TotalSessions() int {
	return p.DurationWeeks * p.FrequencyPerWeek
}

// SessionsPerWeek returns the weekly session frequency
func (p *TreatmentPlan) SessionsPerWeek() int {
	return p.FrequencyPerWeek
}
