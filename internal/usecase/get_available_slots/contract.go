package get_available_slots

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

// CatalogRepository интерфейс справочника услуг и мастеров
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// AvailabilityEngine интерфейс движка доступности
type AvailabilityEngine interface {
	Location() *time.Location
	FindAvailableSlotsInPeriod(rng scheduling.DateRange, durationMinutes int, staffID int64, appointments []*domain.Appointment, period scheduling.Period) ([]domain.AvailableSlot, error)
}

// Metrics интерфейс метрик поиска слотов
type Metrics interface {
	ObserveSlotSearch(period string, found int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
