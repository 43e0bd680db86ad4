package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	StaffID         int64          `json:"staffId"`
	ServiceID       int64          `json:"serviceId"`
	DurationMinutes int            `json:"durationMinutes"`
	Period          string         `json:"period"`
	From            string         `json:"from"`
	To              string         `json:"to"`
	Days            []AvailableDay `json:"days"`
}

// AvailableDay слоты одной даты
type AvailableDay struct {
	Date  string          `json:"date"`
	Slots []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	StartAt   string `json:"startAt"`
	EndAt     string `json:"endAt"`
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(staffID, serviceID int64, from, to time.Time, periodStr string) (*getAvailableSlots.Request, error) {
	period, err := scheduling.ParsePeriod(periodStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		StaffID:   staffID,
		ServiceID: serviceID,
		From:      from,
		To:        to,
		Period:    period,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	days := make([]AvailableDay, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]AvailableSlot, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = AvailableSlot{
				StartTime: slot.StartTime,
				StartAt:   slot.StartAt.Format(time.RFC3339),
				EndAt:     slot.EndAt.Format(time.RFC3339),
			}
		}
		days[i] = AvailableDay{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: slots,
		}
	}

	return &AvailableSlotsResponse{
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Period:          string(resp.Period),
		From:            resp.From.Format(domain.DateFormat),
		To:              resp.To.Format(domain.DateFormat),
		Days:            days,
	}
}
