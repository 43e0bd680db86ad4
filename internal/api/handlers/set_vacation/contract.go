package set_vacation

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	SetVacation(ctx context.Context, req *models.SetVacationRequest) (*models.VacationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
