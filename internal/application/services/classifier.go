package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
)

const (
	// abandonmentThresholdDays is the number of days without a visit after
	// which a patient with nothing scheduled is considered abandoned.
	abandonmentThresholdDays = 7

	// riskThresholdDays marks a patient as at risk on the timeline.
	riskThresholdDays = 4

	// nearDischargeRatio is the completed-session fraction that flags a
	// patient as approaching discharge.
	nearDischargeRatio = 0.8

	// unknownVisitDays stands in for a missing or unparseable last visit,
	// so those patients always count as maximally overdue.
	unknownVisitDays = 1 << 20
)

// classificationKind identifies the bucket of the primary classification.
// The order is the priority order: the first matching rule wins.
type classificationKind int

const (
	kindRegular classificationKind = iota
	kindAbandonment
	kindHighRisk
	kindAttention
)

// classification is the outcome of classifying a single patient
type classification struct {
	kind   classificationKind
	reason string
}

// classifyPatient applies the priority rules to one patient, first match
// wins: abandonment, then high risk, then attention, then regular. The
// patient's classification depends only on its own appointments and plan.
func classifyPatient(p *entities.Patient, appointments []*entities.Appointment, plan *entities.TreatmentPlan, now time.Time) classification {
	days := daysSinceLastVisit(now, p.LastVisit)
	if days > abandonmentThresholdDays && !hasFutureScheduled(appointments, now) {
		return classification{kind: kindAbandonment, reason: abandonmentReason(p, days)}
	}

	if recent := recentPastAppointments(appointments, now, 2); len(recent) == 2 &&
		recent[0].Status == entities.AppointmentStatusNoShow &&
		recent[1].Status == entities.AppointmentStatusNoShow {
		return classification{kind: kindHighRisk, reason: "Faltou às duas últimas sessões agendadas"}
	}

	if plan != nil {
		total := plan.TotalSessions()
		completed := completedSessions(appointments)
		if total > 0 && float64(completed) >= nearDischargeRatio*float64(total) && completed < total {
			return classification{
				kind:   kindAttention,
				reason: fmt.Sprintf("Próximo da alta: %d/%d sessões concluídas", completed, total),
			}
		}
	}

	return classification{kind: kindRegular}
}

// pendingDischargeReason reports whether the patient finished the plan with
// nothing scheduled ahead. Computed independently of the primary
// classification.
func pendingDischargeReason(appointments []*entities.Appointment, plan *entities.TreatmentPlan, now time.Time) (string, bool) {
	if plan == nil {
		return "", false
	}
	total := plan.TotalSessions()
	if total <= 0 {
		return "", false
	}
	completed := completedSessions(appointments)
	if completed >= total && !hasFutureScheduled(appointments, now) {
		return fmt.Sprintf("Plano concluído: %d/%d sessões e sem agendamento futuro", completed, total), true
	}
	return "", false
}

func abandonmentReason(p *entities.Patient, days int) string {
	if p.LastVisit.IsZero() {
		return "Sem registro de última visita e sem agendamento futuro"
	}
	return fmt.Sprintf("Sem comparecimento há %d dias e sem agendamento futuro", days)
}

// daysSinceLastVisit returns ceil(now - lastVisit) in days, never negative.
// A zero lastVisit is treated as unknown and maximally overdue.
func daysSinceLastVisit(now, lastVisit time.Time) int {
	if lastVisit.IsZero() {
		return unknownVisitDays
	}
	d := now.Sub(lastVisit)
	if d <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

// hasFutureScheduled reports whether any appointment is still booked ahead
func hasFutureScheduled(appointments []*entities.Appointment, now time.Time) bool {
	for _, a := range appointments {
		if a.IsFutureScheduled(now) {
			return true
		}
	}
	return false
}

// recentPastAppointments returns up to n past appointments, most recent first
func recentPastAppointments(appointments []*entities.Appointment, now time.Time, n int) []*entities.Appointment {
	past := make([]*entities.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.IsPast(now) {
			past = append(past, a)
		}
	}
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].StartTime.After(past[j].StartTime)
	})
	if len(past) > n {
		past = past[:n]
	}
	return past
}

// completedSessions counts the patient's completed appointments
func completedSessions(appointments []*entities.Appointment) int {
	count := 0
	for _, a := range appointments {
		if a.Status == entities.AppointmentStatusCompleted {
			count++
		}
	}
	return count
}

// earliestFutureScheduled returns the next booked appointment, if any
func earliestFutureScheduled(appointments []*entities.Appointment, now time.Time) *entities.Appointment {
	var next *entities.Appointment
	for _, a := range appointments {
		if !a.IsFutureScheduled(now) {
			continue
		}
		if next == nil || a.StartTime.Before(next.StartTime) {
			next = a
		}
	}
	return next
}

// appointmentsByPatient groups an appointment snapshot by patient ID,
// preserving snapshot order within each group
func appointmentsByPatient(appointments []*entities.Appointment) map[string][]*entities.Appointment {
	grouped := make(map[string][]*entities.Appointment, len(appointments))
	for _, a := range appointments {
		grouped[a.PatientID] = append(grouped[a.PatientID], a)
	}
	return grouped
}

// filterActive keeps only patients under active treatment, in input order
func filterActive(patients []*entities.Patient) []*entities.Patient {
	active := make([]*entities.Patient, 0, len(patients))
	for _, p := range patients {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}
