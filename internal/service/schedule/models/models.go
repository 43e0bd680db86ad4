package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// WindowDTO рабочее окно в формате "HH:MM"
type WindowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UpdateDayHoursRequest запрос на замену расписания одного дня недели
type UpdateDayHoursRequest struct {
	DayOfWeek int         `json:"-"` // 0 = воскресенье, берется из пути
	IsOpen    bool        `json:"isOpen"`
	Windows   []WindowDTO `json:"windows"`
}

// ToDomainDayHours конвертирует request в domain модель
func (r *UpdateDayHoursRequest) ToDomainDayHours() (domain.DayHours, error) {
	day := domain.DayHours{
		DayOfWeek: time.Weekday(r.DayOfWeek),
		IsOpen:    r.IsOpen,
		Windows:   make([]domain.TimeWindow, 0, len(r.Windows)),
	}

	for i, w := range r.Windows {
		start, err := domain.ParseMinuteOfDay(w.Start)
		if err != nil {
			return day, fmt.Errorf("window %d start: %w", i, err)
		}
		end, err := domain.ParseMinuteOfDay(w.End)
		if err != nil {
			return day, fmt.Errorf("window %d end: %w", i, err)
		}
		day.Windows = append(day.Windows, domain.TimeWindow{Start: start, End: end})
	}

	return day, nil
}

// SetVacationRequest запрос на установку отпуска
type SetVacationRequest struct {
	StartDate string `json:"startDate"` // "2026-01-02"
	EndDate   string `json:"endDate"`   // включительно
}

// ToDomainVacation конвертирует request в domain модель
func (r *SetVacationRequest) ToDomainVacation() (domain.VacationPeriod, error) {
	start, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return domain.VacationPeriod{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return domain.VacationPeriod{}, fmt.Errorf("endDate: %w", err)
	}
	return domain.VacationPeriod{StartDate: start, EndDate: end}, nil
}

// Response модели

// DayHoursResponse расписание одного дня
type DayHoursResponse struct {
	DayOfWeek int         `json:"dayOfWeek"`
	DayName   string      `json:"dayName"`
	IsOpen    bool        `json:"isOpen"`
	Windows   []WindowDTO `json:"windows"`
}

// OpeningHoursResponse расписание на неделю и текущий отпуск
type OpeningHoursResponse struct {
	Days     []DayHoursResponse `json:"days"`
	Vacation *VacationResponse  `json:"vacation,omitempty"`
}

// VacationResponse активный отпуск
type VacationResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Методы конвертации

// FromDomainDayHours конвертирует domain модель в DTO
func FromDomainDayHours(d domain.DayHours) DayHoursResponse {
	resp := DayHoursResponse{
		DayOfWeek: int(d.DayOfWeek),
		DayName:   d.DayOfWeek.String(),
		IsOpen:    d.IsOpen,
		Windows:   make([]WindowDTO, 0, len(d.Windows)),
	}
	for _, w := range d.Windows {
		resp.Windows = append(resp.Windows, WindowDTO{
			Start: domain.FormatMinuteOfDay(w.Start),
			End:   domain.FormatMinuteOfDay(w.End),
		})
	}
	return resp
}

// FromDomainWeek конвертирует недельное расписание в DTO, дни по порядку с воскресенья
func FromDomainWeek(week domain.WeeklyHours, vacation *domain.VacationPeriod) *OpeningHoursResponse {
	resp := &OpeningHoursResponse{
		Days:     make([]DayHoursResponse, 0, len(week)),
		Vacation: FromDomainVacation(vacation),
	}
	for _, d := range week {
		resp.Days = append(resp.Days, FromDomainDayHours(d))
	}
	return resp
}

// FromDomainVacation конвертирует отпуск в DTO; nil остается nil
func FromDomainVacation(v *domain.VacationPeriod) *VacationResponse {
	if v == nil {
		return nil
	}
	return &VacationResponse{
		StartDate: v.StartDate.Format(domain.DateFormat),
		EndDate:   v.EndDate.Format(domain.DateFormat),
	}
}
