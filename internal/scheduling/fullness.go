package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// FullnessLevel грубый индикатор занятости дня
type FullnessLevel string

const (
	FullnessLow    FullnessLevel = "low"
	FullnessMedium FullnessLevel = "medium"
	FullnessHigh   FullnessLevel = "high"
)

// DayFullness превью занятости одного дня мастера
type DayFullness struct {
	Date      time.Time
	Closed    bool
	Vacation  bool
	Available int // слоты сетки, не пересекающиеся с записями
	Total     int // все слоты сетки дня
	Level     FullnessLevel
}

// OccupiedPercent доля занятых слотов в процентах
func (f DayFullness) OccupiedPercent() float64 {
	if f.Total == 0 {
		return 0
	}
	return float64(f.Total-f.Available) * 100 / float64(f.Total)
}

// BucketFullness переводит занятость в уровень: low < 33%, medium < 66%, иначе high.
// Нулевая занятость и день без слотов относятся к low.
func BucketFullness(available, total int) FullnessLevel {
	if total <= 0 {
		return FullnessLow
	}
	occupied := float64(total-available) * 100 / float64(total)
	switch {
	case occupied < domain.FullnessMediumFromPercent:
		return FullnessLow
	case occupied < domain.FullnessHighFromPercent:
		return FullnessMedium
	default:
		return FullnessHigh
	}
}

// DayFullness считает превью занятости по дням диапазона
func (e *Engine) DayFullness(rng DateRange, staffID int64, appointments []*domain.Appointment) ([]DayFullness, error) {
	snapshot, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return ComputeFullness(snapshot, rng, staffID, appointments, e.granularity)
}

// ComputeFullness для каждого дня считает слоты сетки, не перекрытые записями мастера.
// Длительность услуги здесь не учитывается: индикатор может показать свободное время,
// даже если ни один слот не вмещает нужную услугу.
func ComputeFullness(
	snapshot domain.ScheduleSnapshot,
	rng DateRange,
	staffID int64,
	appointments []*domain.Appointment,
	granularity int,
) ([]DayFullness, error) {
	if staffID <= 0 {
		return nil, ErrStaffRequired
	}
	if rng.To.Before(rng.From) {
		return nil, ErrInvalidRange
	}

	busy := staffAppointments(staffID, 0, appointments)
	result := make([]DayFullness, 0)

	for _, date := range rng.Days() {
		item := DayFullness{Date: date}

		if snapshot.IsVacation(date) {
			item.Vacation = true
			item.Level = BucketFullness(0, 0)
			result = append(result, item)
			continue
		}

		day := snapshot.DayFor(date)
		if !day.HasOpenWindows() {
			item.Closed = true
			item.Level = BucketFullness(0, 0)
			result = append(result, item)
			continue
		}

		offsets := GenerateSlots(day, granularity)
		item.Total = len(offsets)
		for _, t := range offsets {
			start, end := dayInterval(date, t, granularity)
			if !overlapsAny(start, end, busy) {
				item.Available++
			}
		}
		item.Level = BucketFullness(item.Available, item.Total)

		result = append(result, item)
	}

	return result, nil
}
