package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, startAt, endAt time.Time, status domain.AppointmentStatus) error
}

// BookingValidator интерфейс повторной проверки слота перед переносом
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
