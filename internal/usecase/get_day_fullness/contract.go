package get_day_fullness

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

// StaffRepository интерфейс справочника мастеров
type StaffRepository interface {
	GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// AvailabilityEngine интерфейс движка доступности
type AvailabilityEngine interface {
	Location() *time.Location
	DayFullness(rng scheduling.DateRange, staffID int64, appointments []*domain.Appointment) ([]scheduling.DayFullness, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
