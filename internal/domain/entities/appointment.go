package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Appointment represents a single session of a patient.
// Many appointments may exist per patient; the monitoring engine never
// mutates them.
type Appointment struct {
	ID        string            `json:"id" db:"id"`
	PatientID string            `json:"patient_id" db:"patient_id"`
	StartTime time.Time         `json:"start_time" db:"start_time"`
	Status    AppointmentStatus `json:"status" db:"status"`
	Notes     string            `json:"notes" db:"notes"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// IsPast reports whether the appointment started before the given instant
func (a *Appointment) IsPast(now time.Time) bool {
	return a.StartTime.Before(now)
}

// IsFutureScheduled reports whether the appointment is still ahead and booked
func (a *Appointment) IsFutureScheduled(now time.Time) bool {
	return a.Status == AppointmentStatusScheduled && a.StartTime.After(now)
}
