package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
)

func TestGetQuickActionsData_ContactQueuesFromAlertedPatients(t *testing.T) {
	svc := newTestService(&stubPlanRepo{})

	abandoned := activePatient("a1", testNow.AddDate(0, 0, -9))
	abandoned.Name = "Carlos Pereira"
	abandoned.Phone = "+5511988887777"

	highRisk := activePatient("h1", testNow.AddDate(0, 0, -2))
	regular := activePatient("r1", testNow.AddDate(0, 0, -1))

	appts := []*entities.Appointment{
		appt("h1", testNow.AddDate(0, 0, -6), entities.AppointmentStatusNoShow),
		appt("h1", testNow.AddDate(0, 0, -4), entities.AppointmentStatusNoShow),
	}

	got, err := svc.GetQuickActionsData(context.Background(), []*entities.Patient{abandoned, highRisk, regular}, appts)

	require.NoError(t, err)
	require.Len(t, got.WhatsAppContacts, 2)
	require.Len(t, got.RescheduleSuggestions, 2)

	assert.Equal(t, "a1", got.WhatsAppContacts[0].PatientID)
	assert.Equal(t, "+5511988887777", got.WhatsAppContacts[0].Phone)
	assert.Contains(t, got.WhatsAppContacts[0].Message, "Olá Carlos!")

	assert.Equal(t, abandoned.LastVisit.Format("02/01/2006"), got.RescheduleSuggestions[0].LastVisit)
	assert.Contains(t, got.RescheduleSuggestions[0].Reason, "9 dias")
	assert.Contains(t, got.RescheduleSuggestions[1].Reason, "Faltou")
}

func TestGetQuickActionsData_ContactLogsPendingCoversEveryPatient(t *testing.T) {
	svc := newTestService(&stubPlanRepo{})

	contacted := activePatient("c1", testNow.AddDate(0, 0, -1))
	lastContact := testNow.AddDate(0, 0, -3)
	contacted.CommunicationLogs = []entities.CommunicationLog{
		{ID: "log-2", PatientID: "c1", Date: lastContact, Type: "whatsapp"},
		{ID: "log-1", PatientID: "c1", Date: testNow.AddDate(0, 0, -20), Type: "phone"},
	}
	never := activePatient("n1", testNow.AddDate(0, 0, -1))

	got, err := svc.GetQuickActionsData(context.Background(), []*entities.Patient{contacted, never}, []*entities.Appointment{})

	require.NoError(t, err)
	require.Len(t, got.ContactLogsPending, 2)

	require.NotNil(t, got.ContactLogsPending[0].LastCommunication)
	assert.Equal(t, lastContact, *got.ContactLogsPending[0].LastCommunication)
	assert.Nil(t, got.ContactLogsPending[1].LastCommunication)
}

func TestGetQuickActionsData_ObservationsOnlyForMedicalAlerts(t *testing.T) {
	svc := newTestService(&stubPlanRepo{})

	flagged := activePatient("f1", testNow.AddDate(0, 0, -1))
	flagged.MedicalAlerts = "Hipertensão: medir pressão antes da sessão"
	plain := activePatient("p1", testNow.AddDate(0, 0, -1))
	blank := activePatient("b1", testNow.AddDate(0, 0, -1))
	blank.MedicalAlerts = "   "

	got, err := svc.GetQuickActionsData(context.Background(), []*entities.Patient{flagged, plain, blank}, []*entities.Appointment{})

	require.NoError(t, err)
	require.Len(t, got.Observations, 1)
	assert.Equal(t, "f1", got.Observations[0].PatientID)
	assert.Equal(t, "Hipertensão: medir pressão antes da sessão", got.Observations[0].Summary)
}

func TestGetQuickActionsData_EmptySnapshot(t *testing.T) {
	svc := newTestService(&stubPlanRepo{})

	got, err := svc.GetQuickActionsData(context.Background(), []*entities.Patient{}, []*entities.Appointment{})

	require.NoError(t, err)
	assert.Empty(t, got.WhatsAppContacts)
	assert.Empty(t, got.RescheduleSuggestions)
	assert.Empty(t, got.ContactLogsPending)
	assert.Empty(t, got.Observations)
}

func TestGetQuickActionsData_SingleNamePatientGreeting(t *testing.T) {
	svc := newTestService(&stubPlanRepo{})

	p := activePatient("s1", testNow.Add(-10*24*time.Hour))
	p.Name = "Madonna"

	got, err := svc.GetQuickActionsData(context.Background(), []*entities.Patient{p}, []*entities.Appointment{})

	require.NoError(t, err)
	require.Len(t, got.WhatsAppContacts, 1)
	assert.Contains(t, got.WhatsAppContacts[0].Message, "Olá Madonna!")
}
