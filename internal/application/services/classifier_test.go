package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func activePatient(id string, lastVisit time.Time) *entities.Patient {
	return &entities.Patient{
		ID:        id,
		Name:      "Maria Souza",
		Phone:     "+5511999990000",
		Status:    entities.PatientStatusActive,
		LastVisit: lastVisit,
	}
}

func appt(patientID string, start time.Time, status entities.AppointmentStatus) *entities.Appointment {
	return &entities.Appointment{
		ID:        patientID + "-" + start.Format("20060102T1504"),
		PatientID: patientID,
		StartTime: start,
		Status:    status,
	}
}

func plan(patientID string, weeks, perWeek int) *entities.TreatmentPlan {
	return &entities.TreatmentPlan{
		ID:               "plan-" + patientID,
		PatientID:        patientID,
		DurationWeeks:    weeks,
		FrequencyPerWeek: perWeek,
		Active:           true,
	}
}

func TestClassifyPatient_Abandonment(t *testing.T) {
	p := activePatient("p1", testNow.AddDate(0, 0, -8))

	c := classifyPatient(p, nil, nil, testNow)

	assert.Equal(t, kindAbandonment, c.kind)
	assert.Contains(t, c.reason, "8 dias")
}

func TestClassifyPatient_FutureScheduledBlocksAbandonment(t *testing.T) {
	p := activePatient("p1", testNow.AddDate(0, 0, -10))
	appts := []*entities.Appointment{
		appt("p1", testNow.AddDate(0, 0, 2), entities.AppointmentStatusScheduled),
	}

	c := classifyPatient(p, appts, nil, testNow)

	assert.NotEqual(t, kindAbandonment, c.kind)
}

func TestClassifyPatient_HighRisk_TwoRecentNoShows(t *testing.T) {
	// An older completed appointment must not mask the two recent no-shows.
	p := activePatient("p2", testNow.AddDate(0, 0, -3))
	appts := []*entities.Appointment{
		appt("p2", testNow.AddDate(0, 0, -30), entities.AppointmentStatusCompleted),
		appt("p2", testNow.AddDate(0, 0, -10), entities.AppointmentStatusNoShow),
		appt("p2", testNow.AddDate(0, 0, -5), entities.AppointmentStatusNoShow),
	}

	c := classifyPatient(p, appts, nil, testNow)

	assert.Equal(t, kindHighRisk, c.kind)
}

func TestClassifyPatient_SinglePastNoShowIsNotHighRisk(t *testing.T) {
	p := activePatient("p3", testNow.AddDate(0, 0, -2))
	appts := []*entities.Appointment{
		appt("p3", testNow.AddDate(0, 0, -5), entities.AppointmentStatusNoShow),
	}

	c := classifyPatient(p, appts, nil, testNow)

	assert.Equal(t, kindRegular, c.kind)
}

func TestClassifyPatient_AbandonmentWinsOverHighRisk(t *testing.T) {
	p := activePatient("p4", testNow.AddDate(0, 0, -12))
	appts := []*entities.Appointment{
		appt("p4", testNow.AddDate(0, 0, -12), entities.AppointmentStatusNoShow),
		appt("p4", testNow.AddDate(0, 0, -9), entities.AppointmentStatusNoShow),
	}

	c := classifyPatient(p, appts, nil, testNow)

	assert.Equal(t, kindAbandonment, c.kind)
}

func TestClassifyPatient_Attention_NearDischarge(t *testing.T) {
	p := activePatient("p5", testNow.AddDate(0, 0, -2))
	appts := make([]*entities.Appointment, 0, 17)
	for i := 0; i < 17; i++ {
		appts = append(appts, appt("p5", testNow.AddDate(0, 0, -60+i*2), entities.AppointmentStatusCompleted))
	}

	c := classifyPatient(p, appts, plan("p5", 10, 2), testNow)

	assert.Equal(t, kindAttention, c.kind)
	assert.Contains(t, c.reason, "17/20 sessões")
}

func TestClassifyPatient_CompletedPlanIsNotAttention(t *testing.T) {
	p := activePatient("p6", testNow.AddDate(0, 0, -2))
	appts := make([]*entities.Appointment, 0, 20)
	for i := 0; i < 20; i++ {
		appts = append(appts, appt("p6", testNow.AddDate(0, 0, -60+i*2), entities.AppointmentStatusCompleted))
	}

	c := classifyPatient(p, appts, plan("p6", 10, 2), testNow)

	assert.Equal(t, kindRegular, c.kind)
}

func TestClassifyPatient_NoPlanCannotBeAttention(t *testing.T) {
	p := activePatient("p7", testNow.AddDate(0, 0, -1))
	appts := make([]*entities.Appointment, 0, 17)
	for i := 0; i < 17; i++ {
		appts = append(appts, appt("p7", testNow.AddDate(0, 0, -40+i*2), entities.AppointmentStatusCompleted))
	}

	c := classifyPatient(p, appts, nil, testNow)

	assert.Equal(t, kindRegular, c.kind)
}

func TestClassifyPatient_UnknownLastVisitIsAbandonment(t *testing.T) {
	p := activePatient("p8", time.Time{})

	c := classifyPatient(p, nil, nil, testNow)

	assert.Equal(t, kindAbandonment, c.kind)
	assert.Contains(t, c.reason, "Sem registro")
}

func TestPendingDischargeReason(t *testing.T) {
	appts := make([]*entities.Appointment, 0, 12)
	for i := 0; i < 12; i++ {
		appts = append(appts, appt("p9", testNow.AddDate(0, 0, -40+i*2), entities.AppointmentStatusCompleted))
	}

	reason, ok := pendingDischargeReason(appts, plan("p9", 6, 2), testNow)
	assert.True(t, ok)
	assert.Contains(t, reason, "12/12")

	// A future booking keeps the patient off the pending discharge list.
	withFuture := append(appts, appt("p9", testNow.AddDate(0, 0, 3), entities.AppointmentStatusScheduled))
	_, ok = pendingDischargeReason(withFuture, plan("p9", 6, 2), testNow)
	assert.False(t, ok)
}

func TestDaysSinceLastVisit(t *testing.T) {
	assert.Equal(t, 8, daysSinceLastVisit(testNow, testNow.AddDate(0, 0, -8)))
	assert.Equal(t, 1, daysSinceLastVisit(testNow, testNow.Add(-1*time.Hour)))
	assert.Equal(t, 0, daysSinceLastVisit(testNow, testNow))
	assert.Equal(t, 0, daysSinceLastVisit(testNow, testNow.AddDate(0, 0, 2)))
	assert.Equal(t, unknownVisitDays, daysSinceLastVisit(testNow, time.Time{}))
}
