package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс справочника услуг и мастеров
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// BookingValidator интерфейс повторной проверки слота перед записью
type BookingValidator interface {
	Location() *time.Location
	ValidateBooking(candidate scheduling.BookingCandidate, appointments []*domain.Appointment) error
}

// EventPublisher интерфейс публикации событий записей
type EventPublisher interface {
	Publish(ctx context.Context, event domain.AppointmentEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик конфликтов записи
type Metrics interface {
	IncBookingConflict(stage string)
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
