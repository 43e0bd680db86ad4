package list_appointments

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest переводит включительные даты from..to в полуоткрытый интервал в часовом поясе loc
func ToServiceRequest(from, to time.Time, staffID *int64, includeCancelled bool, loc *time.Location) *models.ListAppointmentsRequest {
	return &models.ListAppointmentsRequest{
		From:             domain.DateIn(from, loc),
		To:               domain.DateIn(to, loc).AddDate(0, 0, 1),
		StaffID:          staffID,
		IncludeCancelled: includeCancelled,
	}
}
