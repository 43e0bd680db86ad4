package clear_vacation

import "context"

type ScheduleService interface {
	ClearVacation(ctx context.Context) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
