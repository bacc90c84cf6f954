package services

import (
	"sort"

	"github.com/fisioflow/clinicops/backend/internal/domain/entities"
	apperrors "github.com/fisioflow/clinicops/backend/pkg/errors"
)

// GetPatientAttendanceSeries derives each patient's chronological
// attendance series from the appointment snapshot alone. Completed and
// no-show appointments pass through; anything else counts as scheduled.
// Always synchronous, no plan lookup involved.
func (s *MonitoringService) GetPatientAttendanceSeries(appointments []*entities.Appointment) (map[string][]entities.PatientAttendancePoint, error) {
	if appointments == nil {
		return nil, apperrors.NewValidationError("appointments snapshot is required")
	}

	series := make(map[string][]entities.PatientAttendancePoint)
	for _, a := range appointments {
		series[a.PatientID] = append(series[a.PatientID], entities.PatientAttendancePoint{
			Date:   a.StartTime.Format("2006-01-02"),
			Status: attendanceStatus(a.Status),
		})
	}

	for id := range series {
		points := series[id]
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Date < points[j].Date
		})
		series[id] = points
	}
	return series, nil
}

func attendanceStatus(status entities.AppointmentStatus) entities.AppointmentStatus {
	switch status {
	case entities.AppointmentStatusCompleted, entities.AppointmentStatusNoShow:
		return status
	default:
		return entities.AppointmentStatusScheduled
	}
}
