package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64
	Date          time.Time // Новая дата
	StartMinute   int       // Новое время начала, минуты от полуночи в часовом поясе заведения
}

// Response запись после переноса
type Response struct {
	ID              int64
	StaffID         int64
	ServiceID       int64
	PreviousStartAt time.Time
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          domain.AppointmentStatus
}
