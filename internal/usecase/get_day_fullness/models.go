package get_day_fullness

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// Request модель запроса превью занятости
type Request struct {
	StaffID int64
	From    time.Time // включительно
	To      time.Time // включительно; нулевое значение означает один день
}

// Response занятость мастера по дням
type Response struct {
	StaffID int64
	Days    []Day
}

// Day превью одного дня
type Day struct {
	Date            time.Time
	Closed          bool
	Vacation        bool
	Available       int
	Total           int
	OccupiedPercent float64
	Level           scheduling.FullnessLevel
}
