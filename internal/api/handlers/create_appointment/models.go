package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	StaffID     int64   `json:"staffId"`
	ServiceID   int64   `json:"serviceId"`
	Date        string  `json:"date"`      // "2026-03-02"
	StartTime   string  `json:"startTime"` // "10:00"
	ClientName  string  `json:"clientName"`
	ClientPhone *string `json:"clientPhone,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	StaffID         int64   `json:"staffId"`
	ServiceID       int64   `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ClientName      string  `json:"clientName"`
	ClientPhone     *string `json:"clientPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	StartAt         string  `json:"startAt"`
	EndAt           string  `json:"endAt"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	startMinute, err := domain.ParseMinuteOfDay(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	return &createAppointment.Request{
		StaffID:     r.StaffID,
		ServiceID:   r.ServiceID,
		Date:        date,
		StartMinute: startMinute,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response; дата и время в поясе start
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		Date:            resp.StartAt.Format(domain.DateFormat),
		StartTime:       resp.StartAt.Format(domain.TimeFormat),
		EndTime:         resp.EndAt.Format(domain.TimeFormat),
		DurationMinutes: resp.DurationMinutes,
		Status:          string(resp.Status),
		ClientName:      resp.ClientName,
		ClientPhone:     resp.ClientPhone,
		Notes:           resp.Notes,
		StartAt:         resp.StartAt.Format(time.RFC3339),
		EndAt:           resp.EndAt.Format(time.RFC3339),
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
