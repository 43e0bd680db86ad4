package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	StaffID     int64     // ID мастера
	ServiceID   int64     // ID услуги
	Date        time.Time // Дата записи (без времени)
	StartMinute int       // Время начала, минуты от полуночи в часовом поясе заведения
	ClientName  string
	ClientPhone *string
	Notes       *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	StaffID         int64
	ServiceID       int64
	ServiceName     string
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          domain.AppointmentStatus
	ClientName      string
	ClientPhone     *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
