package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type staticSource struct {
	snapshot domain.ScheduleSnapshot
	loaded   bool
}

func (s staticSource) Snapshot() (domain.ScheduleSnapshot, bool) {
	return s.snapshot, s.loaded
}

// weekWith возвращает неделю, где открыты только указанные дни
func weekWith(days map[time.Weekday][]domain.TimeWindow) domain.WeeklyHours {
	week := domain.NewClosedWeek()
	for wd, windows := range days {
		week[wd] = domain.DayHours{DayOfWeek: wd, IsOpen: true, Windows: windows}
	}
	return week
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(day time.Time, hhmm string) time.Time {
	m, err := domain.ParseMinuteOfDay(hhmm)
	if err != nil {
		panic(err)
	}
	return domain.AtMinute(day, m)
}

func appt(id, staffID int64, start time.Time, minutes int, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		StaffID:         staffID,
		ServiceID:       1,
		StartAt:         start,
		DurationMinutes: minutes,
		Status:          status,
	}
}

func oneDay(d time.Time) DateRange {
	return DateRange{From: d, To: d.AddDate(0, 0, 1)}
}

func slotTimes(slots []domain.AvailableSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.TimeString())
	}
	return out
}

func minutesRange(from, to, step int) []int {
	out := make([]int, 0)
	for m := from; m < to; m += step {
		out = append(out, m)
	}
	return out
}
