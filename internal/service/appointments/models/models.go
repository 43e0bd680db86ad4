package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListAppointmentsRequest запрос списка записей за период
type ListAppointmentsRequest struct {
	From             time.Time // начало периода (включительно)
	To               time.Time // конец периода (не включительно)
	StaffID          *int64    // фильтр по мастеру (опционально)
	IncludeCancelled bool      // включить отмененные записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() domain.AppointmentsFilter {
	return domain.AppointmentsFilter{
		StaffID:          r.StaffID,
		From:             r.From,
		To:               r.To,
		IncludeCancelled: r.IncludeCancelled,
	}
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	StaffID         int64  `json:"staffId"`
	ServiceID       int64  `json:"serviceId"`
	Date            string `json:"date"`      // "2026-03-02" в часовом поясе заведения
	StartTime       string `json:"startTime"` // "10:00"
	EndTime         string `json:"endTime"`   // "10:30"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	ClientName  string  `json:"clientName"`
	ClientPhone *string `json:"clientPhone,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO; дата и время в часовом поясе loc
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	start := a.StartAt.In(loc)
	end := a.EffectiveEnd().In(loc)

	resp := &AppointmentResponse{
		ID:                 a.ID,
		StaffID:            a.StaffID,
		ServiceID:          a.ServiceID,
		Date:               start.Format(domain.DateFormat),
		StartTime:          start.Format(domain.TimeFormat),
		EndTime:            end.Format(domain.TimeFormat),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		ClientName:         a.ClientName,
		ClientPhone:        a.ClientPhone,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		StartAt:            start,
		EndAt:              end,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, appt := range appointments {
		if item := FromDomainAppointment(appt, loc); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
