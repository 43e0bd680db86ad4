package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// HoursRepository интерфейс репозитория часов работы
type HoursRepository interface {
	GetWeekly(ctx context.Context) (domain.WeeklyHours, error)
	ReplaceDay(ctx context.Context, day domain.DayHours) error
}

// VacationRepository интерфейс репозитория отпуска
type VacationRepository interface {
	Get(ctx context.Context) (*domain.VacationPeriod, error)
	Set(ctx context.Context, period domain.VacationPeriod) error
	Clear(ctx context.Context) error
}

// ScheduleInvalidator перечитывает расписание и оповещает другие экземпляры сервиса
type ScheduleInvalidator interface {
	Invalidate(ctx context.Context) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
