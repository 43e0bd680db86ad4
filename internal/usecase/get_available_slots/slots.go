package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// dropPastSlots убирает слоты, начало которых уже наступило
func dropPastSlots(slots []domain.AvailableSlot, now time.Time) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.StartAt().After(now) {
			result = append(result, slot)
		}
	}
	return result
}

// groupByDate группирует упорядоченные слоты по датам, сохраняя порядок
func groupByDate(slots []domain.AvailableSlot, durationMinutes int) []Day {
	days := make([]Day, 0)
	for _, slot := range slots {
		if len(days) == 0 || !domain.SameDate(days[len(days)-1].Date, slot.Date) {
			days = append(days, Day{Date: slot.Date, Slots: make([]Slot, 0)})
		}
		start := slot.StartAt()
		last := &days[len(days)-1]
		last.Slots = append(last.Slots, Slot{
			StartTime: slot.TimeString(),
			StartAt:   start,
			EndAt:     start.Add(time.Duration(durationMinutes) * time.Minute),
		})
	}
	return days
}

