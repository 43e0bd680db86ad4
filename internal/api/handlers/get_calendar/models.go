package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getCalendar "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_calendar"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	StaffID     *int64     `json:"staffId,omitempty"`
	Granularity int        `json:"granularityMinutes"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Days        []Day      `json:"days"`
	Conflicts   []Conflict `json:"conflicts"`
}

// Day колонка календаря
type Day struct {
	Date     string `json:"date"`
	Closed   bool   `json:"closed"`
	Vacation bool   `json:"vacation"`
	Cells    []Cell `json:"cells"`
}

// Cell ячейка календаря
type Cell struct {
	Time     string  `json:"time"`
	Kind     string  `json:"kind"`
	Vacation bool    `json:"vacation,omitempty"`
	Cards    []Card  `json:"cards,omitempty"`
	Covering []int64 `json:"covering,omitempty"`
}

// Card карточка записи
type Card struct {
	AppointmentID int64  `json:"appointmentId"`
	StaffID       int64  `json:"staffId"`
	ServiceID     int64  `json:"serviceId"`
	Status        string `json:"status"`
	StartAt       string `json:"startAt"`
	EndAt         string `json:"endAt"`
	SpanCount     int    `json:"spanCount"`
}

// Conflict несогласованность записей, найденная при раскладке
type Conflict struct {
	Kind           string  `json:"kind"`
	StaffID        int64   `json:"staffId"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	AppointmentIDs []int64 `json:"appointmentIds"`
	WinnerID       int64   `json:"winnerId"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	grid := resp.Grid

	days := make([]Day, len(grid.Days))
	for i, d := range grid.Days {
		cells := make([]Cell, len(d.Cells))
		for j, c := range d.Cells {
			cells[j] = Cell{
				Time:     domain.FormatMinuteOfDay(c.Minute),
				Kind:     string(c.Kind),
				Vacation: c.Vacation,
				Covering: c.Covering,
			}
			for _, card := range c.Cards {
				cells[j].Cards = append(cells[j].Cards, Card{
					AppointmentID: card.AppointmentID,
					StaffID:       card.StaffID,
					ServiceID:     card.ServiceID,
					Status:        string(card.Status),
					StartAt:       card.StartAt.Format(time.RFC3339),
					EndAt:         card.EndAt.Format(time.RFC3339),
					SpanCount:     card.SpanCount,
				})
			}
		}
		days[i] = Day{
			Date:     d.Date.Format(domain.DateFormat),
			Closed:   d.Closed,
			Vacation: d.Vacation,
			Cells:    cells,
		}
	}

	conflicts := make([]Conflict, len(grid.Conflicts))
	for i, c := range grid.Conflicts {
		conflicts[i] = Conflict{
			Kind:           string(c.Kind),
			StaffID:        c.StaffID,
			Date:           c.Date.Format(domain.DateFormat),
			Time:           domain.FormatMinuteOfDay(c.Minute),
			AppointmentIDs: c.AppointmentIDs,
			WinnerID:       c.WinnerID,
		}
	}

	return &CalendarResponse{
		StaffID:     resp.StaffID,
		Granularity: grid.Granularity,
		StartTime:   domain.FormatMinuteOfDay(grid.StartMinute),
		EndTime:     domain.FormatMinuteOfDay(grid.EndMinute),
		Days:        days,
		Conflicts:   conflicts,
	}
}
