package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// DateRange полуоткрытый диапазон календарных дат [From, To)
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange создает диапазон из дат начала (включительно) и конца (не включительно).
// Время суток отбрасывается, часовой пояс берется из from.
func NewDateRange(from, to time.Time) (DateRange, error) {
	from = domain.StartOfDay(from)
	to = domain.StartOfDay(to.In(from.Location()))
	if to.Before(from) {
		return DateRange{}, fmt.Errorf("%w: %s is before %s", ErrInvalidRange,
			to.Format(domain.DateFormat), from.Format(domain.DateFormat))
	}
	return DateRange{From: from, To: to}, nil
}

// Days возвращает даты диапазона по возрастанию
func (r DateRange) Days() []time.Time {
	days := make([]time.Time, 0)
	for d := domain.StartOfDay(r.From); d.Before(r.To); d = domain.StartOfDay(d.AddDate(0, 0, 1)) {
		days = append(days, d)
	}
	return days
}

// Len возвращает количество дней в диапазоне
func (r DateRange) Len() int {
	return len(r.Days())
}

// Engine движок доступности. Чистые вычисления над снимком расписания и уже загруженными записями
type Engine struct {
	source      ScheduleSource
	location    *time.Location
	granularity int
}

// NewEngine создает движок, читающий расписание из source.
// location часовой пояс заведения, в нем интерпретируются даты и время слотов
func NewEngine(source ScheduleSource, location *time.Location) *Engine {
	if location == nil {
		location = time.UTC
	}
	return &Engine{
		source:      source,
		location:    location,
		granularity: domain.SlotGranularityMinutes,
	}
}

// Location возвращает часовой пояс заведения
func (e *Engine) Location() *time.Location {
	return e.location
}

// Snapshot возвращает текущий снимок расписания или ErrConfigurationUnavailable
func (e *Engine) Snapshot() (domain.ScheduleSnapshot, error) {
	snapshot, ok := e.source.Snapshot()
	if !ok {
		return domain.ScheduleSnapshot{}, ErrConfigurationUnavailable
	}
	return snapshot, nil
}

// FindAvailableSlots ищет свободные слоты мастера для услуги длительностью durationMinutes
func (e *Engine) FindAvailableSlots(rng DateRange, durationMinutes int, staffID int64, appointments []*domain.Appointment) ([]domain.AvailableSlot, error) {
	snapshot, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return FindAvailableSlots(snapshot, rng, durationMinutes, staffID, appointments, e.granularity)
}

// FindAvailableSlotsInPeriod ищет слоты и оставляет только выбранную половину дня.
// Поиск и фильтр используют один и тот же снимок расписания
func (e *Engine) FindAvailableSlotsInPeriod(rng DateRange, durationMinutes int, staffID int64, appointments []*domain.Appointment, period Period) ([]domain.AvailableSlot, error) {
	snapshot, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	slots, err := FindAvailableSlots(snapshot, rng, durationMinutes, staffID, appointments, e.granularity)
	if err != nil {
		return nil, err
	}
	return FilterSlotsByPeriod(snapshot, slots, period), nil
}

// FindAvailableSlots по дням диапазона:
//  1. пропускает закрытые дни и дни отпуска
//  2. генерирует все слоты дня (full)
//  3. оставляет t, только если каждый шаг сетки внутри [t, t+duration) тоже слот дня
//  4. отбрасывает t, пересекающиеся с записями мастера
//
// Результат упорядочен по датам, затем по времени.
func FindAvailableSlots(
	snapshot domain.ScheduleSnapshot,
	rng DateRange,
	durationMinutes int,
	staffID int64,
	appointments []*domain.Appointment,
	granularity int,
) ([]domain.AvailableSlot, error) {
	if staffID <= 0 {
		return nil, ErrStaffRequired
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, durationMinutes)
	}
	if rng.To.Before(rng.From) {
		return nil, ErrInvalidRange
	}

	busy := staffAppointments(staffID, 0, appointments)
	result := make([]domain.AvailableSlot, 0)

	for _, date := range rng.Days() {
		// 1. Закрытый день или отпуск
		if snapshot.IsVacation(date) {
			continue
		}
		day := snapshot.DayFor(date)
		if !day.HasOpenWindows() {
			continue
		}

		// 2. Все слоты дня
		offsets := GenerateSlots(day, granularity)
		set := newOffsetSet(offsets)

		for _, t := range offsets {
			// 3. Запись должна целиком поместиться в одно окно
			if !set.fits(t, durationMinutes, granularity) {
				continue
			}

			// 4. Пересечение с записями мастера
			start, end := dayInterval(date, t, durationMinutes)
			if overlapsAny(start, end, busy) {
				continue
			}

			result = append(result, domain.AvailableSlot{Date: date, Minute: t})
		}
	}

	return result, nil
}

// overlapsAny проверка по заранее отфильтрованным записям мастера
func overlapsAny(start, end time.Time, busy []*domain.Appointment) bool {
	for _, appt := range busy {
		if IntervalsOverlap(start, end, appt.StartAt, appt.EffectiveEnd()) {
			return true
		}
	}
	return false
}

// BookingCandidate время, которое клиент пытается занять
type BookingCandidate struct {
	StaffID         int64
	Start           time.Time
	DurationMinutes int
	// ExcludeAppointmentID запись, которая не считается конфликтом (переносимая запись)
	ExcludeAppointmentID int64
}

// ValidateBooking повторно проверяет слот в момент записи
func (e *Engine) ValidateBooking(candidate BookingCandidate, appointments []*domain.Appointment) error {
	snapshot, err := e.Snapshot()
	if err != nil {
		return err
	}
	return ValidateBooking(snapshot, e.location, candidate, appointments, e.granularity)
}

// ValidateBooking проверяет, что кандидат по-прежнему доступен: день открыт и не в отпуске,
// начало совпадает с одним из слотов дня, запись помещается в одно окно и не пересекается с записями мастера.
func ValidateBooking(
	snapshot domain.ScheduleSnapshot,
	location *time.Location,
	candidate BookingCandidate,
	appointments []*domain.Appointment,
	granularity int,
) error {
	if candidate.StaffID <= 0 {
		return ErrStaffRequired
	}
	if candidate.DurationMinutes <= 0 {
		return fmt.Errorf("%w: %d minutes", ErrInvalidDuration, candidate.DurationMinutes)
	}

	start := candidate.Start.In(location)
	date := domain.StartOfDay(start)
	minute := domain.MinuteOfDay(start)

	if snapshot.IsVacation(date) {
		return fmt.Errorf("%w: %s", ErrVacation, date.Format(domain.DateFormat))
	}

	day := snapshot.DayFor(date)
	if !day.HasOpenWindows() {
		return fmt.Errorf("%w: %s", ErrDayClosed, date.Format(domain.DateFormat))
	}

	if start.Second() != 0 || start.Nanosecond() != 0 {
		return fmt.Errorf("%w: %s", ErrNotAligned, start.Format(domain.TimeFormat))
	}

	// Сетка отсчитывается от начала окна, поэтому принимаются ровно те смещения,
	// которые выдает GenerateSlots
	set := newOffsetSet(GenerateSlots(day, granularity))
	if _, ok := set[minute]; !ok && day.IsOpenAt(minute) {
		return fmt.Errorf("%w: %s", ErrNotAligned, start.Format(domain.TimeFormat))
	}
	if !set.fits(minute, candidate.DurationMinutes, granularity) {
		return fmt.Errorf("%w: %s +%d min", ErrOutsideWorkingHours,
			domain.FormatMinuteOfDay(minute), candidate.DurationMinutes)
	}

	from, to := dayInterval(date, minute, candidate.DurationMinutes)
	if OverlapsExcluding(from, to, candidate.StaffID, candidate.ExcludeAppointmentID, appointments) {
		return ErrSlotConflict
	}

	return nil
}
