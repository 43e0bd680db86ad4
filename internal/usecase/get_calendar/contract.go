package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// CalendarEngine интерфейс раскладки записей по сетке
type CalendarEngine interface {
	Location() *time.Location
	MapAppointmentsToGrid(appointments []*domain.Appointment, dates []time.Time, granularity int) (scheduling.Grid, error)
}

// Metrics интерфейс метрик календаря
type Metrics interface {
	IncCalendarConflict(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
