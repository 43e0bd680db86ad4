package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date      string `json:"date"`      // "2026-03-02"
	StartTime string `json:"startTime"` // "10:00"
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	ID              int64  `json:"id"`
	StaffID         int64  `json:"staffId"`
	ServiceID       int64  `json:"serviceId"`
	PreviousStartAt string `json:"previousStartAt"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	StartAt         string `json:"startAt"`
	EndAt           string `json:"endAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	startMinute, err := domain.ParseMinuteOfDay(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		Date:          date,
		StartMinute:   startMinute,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduleResponse {
	return &RescheduleResponse{
		ID:              resp.ID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		PreviousStartAt: resp.PreviousStartAt.Format(time.RFC3339),
		Date:            resp.StartAt.Format(domain.DateFormat),
		StartTime:       resp.StartAt.Format(domain.TimeFormat),
		EndTime:         resp.EndAt.Format(domain.TimeFormat),
		DurationMinutes: resp.DurationMinutes,
		Status:          string(resp.Status),
		StartAt:         resp.StartAt.Format(time.RFC3339),
		EndAt:           resp.EndAt.Format(time.RFC3339),
	}
}
