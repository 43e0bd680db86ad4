package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Period режим отображения слотов
type Period string

const (
	PeriodFull      Period = "full"
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
)

// ParsePeriod разбирает режим отображения; пустая строка означает full
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodFull:
		return PeriodFull, nil
	case PeriodMorning, PeriodAfternoon:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// GenerateSlots генерирует смещения (минуты от полуночи) всех слотов дня с шагом granularity.
// Для каждого окна выдается каждое t, для которого window.Start <= t и t+granularity <= window.End.
// Закрытый день или день без окон дает пустой результат.
func GenerateSlots(day domain.DayHours, granularity int) []int {
	if !day.HasOpenWindows() || granularity <= 0 {
		return []int{}
	}

	day = day.Normalized()
	offsets := make([]int, 0)
	for _, w := range day.Windows {
		for t := w.Start; t+granularity <= w.End; t += granularity {
			offsets = append(offsets, t)
		}
	}
	return offsets
}

// IsMorningWindow правило разбиения на утро и день для отображения:
// утренним считается только первое окно дня и только если оно начинается раньше 13:00.
// Все остальные окна относятся ко второй половине дня.
func IsMorningWindow(index int, w domain.TimeWindow) bool {
	return index == 0 && w.Start < domain.AfternoonStartMinute
}

// FilterByPeriod оставляет смещения, попадающие в окна выбранной половины дня
func FilterByPeriod(day domain.DayHours, offsets []int, period Period) []int {
	if period == PeriodFull || period == "" {
		return offsets
	}

	day = day.Normalized()
	wantMorning := period == PeriodMorning

	result := make([]int, 0, len(offsets))
	for _, t := range offsets {
		for i, w := range day.Windows {
			if t < w.Start || t >= w.End {
				continue
			}
			if IsMorningWindow(i, w) == wantMorning {
				result = append(result, t)
			}
			break
		}
	}
	return result
}

// FilterSlotsByPeriod применяет FilterByPeriod к найденным слотам, используя часы работы их дат
func FilterSlotsByPeriod(snapshot domain.ScheduleSnapshot, slots []domain.AvailableSlot, period Period) []domain.AvailableSlot {
	if period == PeriodFull || period == "" {
		return slots
	}

	result := make([]domain.AvailableSlot, 0, len(slots))
	for i := 0; i < len(slots); {
		// Слоты упорядочены по датам, поэтому обрабатываем их группами по дню
		j := i
		for j < len(slots) && domain.SameDate(slots[j].Date, slots[i].Date) {
			j++
		}

		day := snapshot.DayFor(slots[i].Date)
		offsets := make([]int, 0, j-i)
		for _, s := range slots[i:j] {
			offsets = append(offsets, s.Minute)
		}
		for _, m := range FilterByPeriod(day, offsets, period) {
			result = append(result, domain.AvailableSlot{Date: slots[i].Date, Minute: m})
		}
		i = j
	}
	return result
}

// offsetSet множество сгенерированных смещений дня для проверки duration-fit
type offsetSet map[int]struct{}

func newOffsetSet(offsets []int) offsetSet {
	set := make(offsetSet, len(offsets))
	for _, t := range offsets {
		set[t] = struct{}{}
	}
	return set
}

// fits проверяет, что каждый шаг сетки внутри [t, t+duration) сам является слотом дня.
// Так запись не может перешагнуть перерыв между окнами.
func (s offsetSet) fits(t, duration, granularity int) bool {
	for sub := t; sub < t+duration; sub += granularity {
		if _, ok := s[sub]; !ok {
			return false
		}
	}
	return true
}

// dayInterval возвращает абсолютный интервал [from, from+duration) дня date.
// Оба конца строятся по настенному времени, поэтому переход на летнее время не сдвигает слот.
func dayInterval(date time.Time, from, duration int) (time.Time, time.Time) {
	return domain.AtMinute(date, from), domain.AtMinute(date, from+duration)
}
