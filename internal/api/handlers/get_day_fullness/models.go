package get_day_fullness

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getDayFullness "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_day_fullness"
)

// FullnessResponse HTTP response model
type FullnessResponse struct {
	StaffID int64         `json:"staffId"`
	Days    []DayFullness `json:"days"`
}

// DayFullness превью занятости одного дня
type DayFullness struct {
	Date            string  `json:"date"`
	Closed          bool    `json:"closed"`
	Vacation        bool    `json:"vacation"`
	Available       int     `json:"available"`
	Total           int     `json:"total"`
	OccupiedPercent float64 `json:"occupiedPercent"`
	Level           string  `json:"level"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDayFullness.Response) *FullnessResponse {
	days := make([]DayFullness, len(resp.Days))
	for i, d := range resp.Days {
		days[i] = DayFullness{
			Date:            d.Date.Format(domain.DateFormat),
			Closed:          d.Closed,
			Vacation:        d.Vacation,
			Available:       d.Available,
			Total:           d.Total,
			OccupiedPercent: d.OccupiedPercent,
			Level:           string(d.Level),
		}
	}
	return &FullnessResponse{StaffID: resp.StaffID, Days: days}
}
