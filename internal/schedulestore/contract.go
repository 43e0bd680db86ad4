package schedulestore

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// HoursRepository интерфейс репозитория часов работы
type HoursRepository interface {
	GetWeekly(ctx context.Context) (domain.WeeklyHours, error)
}

// VacationRepository интерфейс репозитория отпуска
type VacationRepository interface {
	Get(ctx context.Context) (*domain.VacationPeriod, error)
}

// Invalidator канал уведомлений об изменении расписания между экземплярами сервиса
type Invalidator interface {
	Publish(ctx context.Context, payload string) error
	Subscribe(ctx context.Context) (<-chan string, error)
}

// Metrics интерфейс метрик перезагрузки расписания
type Metrics interface {
	IncScheduleReload(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
