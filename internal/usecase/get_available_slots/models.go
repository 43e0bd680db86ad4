package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	StaffID   int64             // ID мастера
	ServiceID int64             // ID услуги, задает длительность
	From      time.Time         // Первая дата периода (включительно)
	To        time.Time         // Последняя дата периода (включительно)
	Period    scheduling.Period // full, morning или afternoon
}

// Response модель ответа со списком доступных слотов
type Response struct {
	StaffID         int64
	ServiceID       int64
	DurationMinutes int
	Period          scheduling.Period
	From            time.Time
	To              time.Time
	Days            []Day // Только дни, в которых есть хотя бы один слот
}

// Day слоты одной даты
type Day struct {
	Date  time.Time
	Slots []Slot
}

// Slot доступное время начала
type Slot struct {
	StartTime string    // "HH:MM" в часовом поясе заведения
	StartAt   time.Time // Абсолютное время начала
	EndAt     time.Time // Абсолютное время окончания услуги
}
