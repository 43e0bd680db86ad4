package get_vacation

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetVacation(ctx context.Context) (*models.VacationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
