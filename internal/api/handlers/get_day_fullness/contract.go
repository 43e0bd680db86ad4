package get_day_fullness

import (
	"context"

	getDayFullness "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_day_fullness"
)

type GetDayFullnessUseCase interface {
	Execute(ctx context.Context, req *getDayFullness.Request) (*getDayFullness.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
