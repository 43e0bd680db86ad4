package update_opening_hours

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateDayHours(ctx context.Context, req *models.UpdateDayHoursRequest) (*models.DayHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
