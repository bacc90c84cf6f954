package entities

import (
	"time"
)

// AlertType classifies why a patient was surfaced by the monitoring engine
type AlertType string

const (
	AlertTypeAbandonment      AlertType = "abandonment"
	AlertTypeHighRisk         AlertType = "high_risk"
	AlertTypeAttention        AlertType = "attention"
	AlertTypePendingDischarge AlertType = "pending_discharge"
)

// AlertPatient is a patient extended with the alert that surfaced them.
// Derived per pass, never persisted.
type AlertPatient struct {
	Patient
	AlertType   AlertType `json:"alert_type"`
	AlertReason string    `json:"alert_reason"`
}

// CategorizedPatients holds the mutually exclusive buckets of the primary
// classification. Every active patient lands in exactly one bucket.
type CategorizedPatients struct {
	Abandonment []AlertPatient `json:"abandonment"`
	HighRisk    []AlertPatient `json:"high_risk"`
	Attention   []AlertPatient `json:"attention"`
	Regular     []Patient      `json:"regular"`
}

// IntelligentAlertSummary is the alert report consumed by the dashboard.
// NearDischarge mirrors Attention; PendingDischarge is computed
// independently of the primary classification.
type IntelligentAlertSummary struct {
	Abandonment      []AlertPatient `json:"abandonment"`
	HighRisk         []AlertPatient `json:"high_risk"`
	Attention        []AlertPatient `json:"attention"`
	NearDischarge    []AlertPatient `json:"near_discharge"`
	PendingDischarge []AlertPatient `json:"pending_discharge"`
}

// DischargeForecast aggregates projected treatment completions
type DischargeForecast struct {
	TotalScheduled    int `json:"total_scheduled"`
	NextSevenDays     int `json:"next_seven_days"`
	OverdueDischarges int `json:"overdue_discharges"`
}

// DashboardMetrics holds the clinic-wide aggregates for the dashboard
type DashboardMetrics struct {
	TotalActivePatients int               `json:"total_active_patients"`
	AbandonmentRate     int               `json:"abandonment_rate"`
	AdherenceAverage    int               `json:"adherence_average"`
	DischargeForecast   DischargeForecast `json:"discharge_forecast"`
}

// PatientAttendancePoint is one point of a patient's attendance series
type PatientAttendancePoint struct {
	Date   string            `json:"date"` // ISO date (YYYY-MM-DD)
	Status AppointmentStatus `json:"status"`
}

// TimelineStatus summarizes how overdue a patient is
type TimelineStatus string

const (
	TimelineStatusOnTrack     TimelineStatus = "on_track"
	TimelineStatusRisk        TimelineStatus = "risk"
	TimelineStatusAbandonment TimelineStatus = "abandonment"
)

// PatientTimelineEntry is one row of the triage timeline
type PatientTimelineEntry struct {
	PatientID          string         `json:"patient_id"`
	PatientName        string         `json:"patient_name"`
	LastVisit          time.Time      `json:"last_visit"`
	NextVisit          *time.Time     `json:"next_visit,omitempty"`
	DaysSinceLastVisit int            `json:"days_since_last_visit"`
	Status             TimelineStatus `json:"status"`
}

// WhatsAppContact is one entry of the outreach contact queue
type WhatsAppContact struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

// RescheduleSuggestion is one entry of the reschedule queue
type RescheduleSuggestion struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	LastVisit string `json:"last_visit"` // localized DD/MM/YYYY, empty when unknown
	Reason    string `json:"reason"`
}

// PendingContactLog flags a patient whose contact history needs review
type PendingContactLog struct {
	PatientID         string     `json:"patient_id"`
	Name              string     `json:"name"`
	LastCommunication *time.Time `json:"last_communication,omitempty"`
}

// ObservationEntry surfaces a patient's medical alert text
type ObservationEntry struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	Summary   string `json:"summary"`
}

// QuickActionsData holds the four independent outreach work queues
type QuickActionsData struct {
	WhatsAppContacts      []WhatsAppContact      `json:"whatsapp_contacts"`
	RescheduleSuggestions []RescheduleSuggestion `json:"reschedule_suggestions"`
	ContactLogsPending    []PendingContactLog    `json:"contact_logs_pending"`
	Observations          []ObservationEntry     `json:"observations"`
}
