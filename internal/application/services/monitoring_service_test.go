package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
)

// stubPlanRepo serves treatment plans from a map; when failing is set every
// lookup errors out.
type stubPlanRepo struct {
	plans   map[string]*entities.TreatmentPlan
	failing bool
	calls   int
}

func (r *stubPlanRepo) GetActiveByPatientIDs(ctx context.Context, patientIDs []string) ([]*entities.TreatmentPlan, error) {
	r.calls++
	if r.failing {
		return nil, errors.New("plan store unavailable")
	}
	out := []*entities.TreatmentPlan{}
	for _, id := range patientIDs {
		if p, ok := r.plans[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestService(repo *stubPlanRepo) *MonitoringService {
	svc := NewMonitoringService(repo)
	svc.now = func() time.Time { return testNow }
	return svc
}

func completedAppointments(patientID string, n int) []*entities.Appointment {
	appts := make([]*entities.Appointment, 0, n)
	for i := 0; i < n; i++ {
		appts = append(appts, appt(patientID, testNow.AddDate(0, 0, -90+i*3), entities.AppointmentStatusCompleted))
	}
	return appts
}

func TestGetCategorizedPatients_ScenarioA_Abandonment(t *testing.T) {
	svc := newTestService(&stubPlanRepo{})
	p := activePatient("p1", testNow.AddDate(0, 0, -8))

	got, err := svc.GetCategorizedPatients(context.Background(), []*entities.Patient{p}, []*entities.Appointment{})

	require.NoError(t, err)
	require.Len(t, got.Abandonment, 1)
	assert.Equal(t, entities.AlertTypeAbandonment, got.Abandonment[0].AlertType)
	assert.Contains(t, got.Abandonment[0].AlertReason, "8 dias")
	assert.Empty(t, got.HighRisk)
	assert.Empty(t, got.Attention)
	assert.Empty(t, got.Regular)
}

func TestGetCategorizedPatients_MutualExclusivity(t *testing.T) {
	// A patient that matches several rules must land in exactly one bucket.
	repo := &stubPlanRepo{plans: map[string]*entities.TreatmentPlan{
		"p1": plan("p1", 10, 2),
	}}
	svc := newTestService(repo)

	p := activePatient("p1", testNow.AddDate(0, 0, -10))
	appts := append(completedAppointments("p1", 17),
		appt("p1", testNow.AddDate(0, 0, -6), entities.AppointmentStatusNoShow),
		appt("p1", testNow.AddDate(0, 0, -4), entities.AppointmentStatusNoShow),
	)

	got, err := svc.GetCategorizedPatients(context.Background(), []*entities.Patient{p}, appts)

	require.NoError(t, err)
	total := len(got.Abandonment) + len(got.HighRisk) + len(got.Attention) + len(got.Regular)
	assert.Equal(t, 1, total)
	assert.Len(t, got.Abandonment, 1, "abandonment has the highest priority")
}

func TestGetCategorizedPatients_InactivePatientsIgnored(t *testing.T) {
	svc := newTestService(&stubPlanRepo{})
	inactive := activePatient("p1", testNow.AddDate(0, 0, -30))
	inactive.Status = entities.PatientStatusDischarged

	got, err := svc.GetCategorizedPatients(context.Background(), []*entities.Patient{inactive}, []*entities.Appointment{})

	require.NoError(t, err)
	assert.Empty(t, got.Abandonment)
	assert.Empty(t, got.Regular)
}

func TestGetCategorizedPatients_NilSnapshotsRejected(t *testing.T) {
	svc := newTestService(&stubPlanRepo{})

	_, err := svc.GetCategorizedPatients(context.Background(), nil, []*entities.Appointment{})
	assert.Error(t, err)

	_, err = svc.GetCategorizedPatients(context.Background(), []*entities.Patient{}, nil)
	assert.Error(t, err)
}

func TestGetIntelligentAlerts_ScenarioB_Attention(t *testing.T) {
	repo := &stubPlanRepo{plans: map[string]*entities.TreatmentPlan{
		"q1": plan("q1", 10, 2),
	}}
	svc := newTestService(repo)

	q := activePatient("q1", testNow.AddDate(0, 0, -2))
	appts := completedAppointments("q1", 17)

	got, err := svc.GetIntelligentAlerts(context.Background(), []*entities.Patient{q}, appts)

	require.NoError(t, err)
	require.Len(t, got.Attention, 1)
	assert.Contains(t, got.Attention[0].AlertReason, "17/20 sessões")
	assert.Equal(t, got.Attention, got.NearDischarge)
	assert.Empty(t, got.PendingDischarge)
}

func TestGetIntelligentAlerts_ScenarioC_PendingDischarge(t *testing.T) {
	repo := &stubPlanRepo{plans: map[string]*entities.TreatmentPlan{
		"r1": plan("r1", 6, 2),
	}}
	svc := newTestService(repo)

	r := activePatient("r1", testNow.AddDate(0, 0, -2))
	appts := completedAppointments("r1", 12)

	got, err := svc.GetIntelligentAlerts(context.Background(), []*entities.Patient{r}, appts)

	require.NoError(t, err)
	require.Len(t, got.PendingDischarge, 1)
	assert.Equal(t, entities.AlertTypePendingDischarge, got.PendingDischarge[0].AlertType)
	assert.Contains(t, got.PendingDischarge[0].AlertReason, "12/12")
	// Plan finished and nothing booked: not attention, still regular in the primary split.
	assert.Empty(t, got.Attention)
}

func TestGetIntelligentAlerts_PlanLookupMemoizedAcrossPasses(t *testing.T) {
	repo := &stubPlanRepo{plans: map[string]*entities.TreatmentPlan{
		"q1": plan("q1", 10, 2),
	}}
	svc := newTestService(repo)

	q := activePatient("q1", testNow.AddDate(0, 0, -2))
	_, err := svc.GetIntelligentAlerts(context.Background(), []*entities.Patient{q}, completedAppointments("q1", 17))

	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "both passes must share one memoized lookup")
}

func TestGetIntelligentAlerts_LookupFailureDegradesToNoPlan(t *testing.T) {
	svc := newTestService(&stubPlanRepo{failing: true})

	abandoned := activePatient("a1", testNow.AddDate(0, 0, -9))
	nearDone := activePatient("b1", testNow.AddDate(0, 0, -1))
	appts := completedAppointments("b1", 17)

	got, err := svc.GetIntelligentAlerts(context.Background(), []*entities.Patient{abandoned, nearDone}, appts)

	require.NoError(t, err, "a failed lookup must not abort the batch")
	assert.Len(t, got.Abandonment, 1)
	assert.Empty(t, got.Attention, "planless patients cannot be near discharge")
	assert.Empty(t, got.PendingDischarge)
	require.Len(t, got.HighRisk, 0)
}

func TestGetIntelligentAlerts_Idempotent(t *testing.T) {
	repo := &stubPlanRepo{plans: map[string]*entities.TreatmentPlan{
		"q1": plan("q1", 10, 2),
	}}
	svc := newTestService(repo)

	patients := []*entities.Patient{
		activePatient("q1", testNow.AddDate(0, 0, -2)),
		activePatient("a1", testNow.AddDate(0, 0, -9)),
	}
	appts := completedAppointments("q1", 17)

	first, err := svc.GetIntelligentAlerts(context.Background(), patients, appts)
	require.NoError(t, err)
	second, err := svc.GetIntelligentAlerts(context.Background(), patients, appts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetIntelligentAlerts_EmptySnapshot(t *testing.T) {
	svc := newTestService(&stubPlanRepo{})

	got, err := svc.GetIntelligentAlerts(context.Background(), []*entities.Patient{}, []*entities.Appointment{})

	require.NoError(t, err)
	assert.Empty(t, got.Abandonment)
	assert.Empty(t, got.HighRisk)
	assert.Empty(t, got.Attention)
	assert.Empty(t, got.PendingDischarge)
}
