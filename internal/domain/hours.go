package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrInvalidWindow is returned for a window outside 00:00-24:00 or with end <= start
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrOverlappingWindows is returned when two windows of one day overlap
	ErrOverlappingWindows = errors.New("overlapping time windows")

	// ErrInvalidDayOfWeek is returned for a day outside 0..6
	ErrInvalidDayOfWeek = errors.New("invalid day of week")

	// ErrInvalidVacation is returned when a vacation ends before it starts
	ErrInvalidVacation = errors.New("invalid vacation period")
)

// TimeWindow is a contiguous open interval of one day in minutes since midnight.
// Start is inclusive, End is exclusive; 0 <= Start < End <= 1440.
type TimeWindow struct {
	Start int
	End   int
}

// Contains reports whether the whole interval [from, to) lies inside the window
func (w TimeWindow) Contains(from, to int) bool {
	return from >= w.Start && to <= w.End
}

// Validate checks window bounds
func (w TimeWindow) Validate() error {
	if w.Start < 0 || w.End > MinutesPerDay || w.End <= w.Start {
		return fmt.Errorf("%w: %s-%s", ErrInvalidWindow, FormatMinuteOfDay(w.Start), FormatMinuteOfDay(w.End))
	}
	return nil
}

// DayHours is the opening schedule of one day of the week (0 = Sunday)
type DayHours struct {
	DayOfWeek time.Weekday
	IsOpen    bool
	Windows   []TimeWindow
}

// Validate checks day index, window bounds and that windows do not overlap
func (d DayHours) Validate() error {
	if d.DayOfWeek < time.Sunday || d.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, d.DayOfWeek)
	}
	if len(d.Windows) > MaxWindowsPerDay {
		return fmt.Errorf("%w: at most %d windows per day", ErrInvalidWindow, MaxWindowsPerDay)
	}

	sorted := sortedWindows(d.Windows)
	for i, w := range sorted {
		if err := w.Validate(); err != nil {
			return err
		}
		if i > 0 && w.Start < sorted[i-1].End {
			return fmt.Errorf("%w: %s-%s and %s-%s", ErrOverlappingWindows,
				FormatMinuteOfDay(sorted[i-1].Start), FormatMinuteOfDay(sorted[i-1].End),
				FormatMinuteOfDay(w.Start), FormatMinuteOfDay(w.End))
		}
	}
	return nil
}

// Normalized returns a copy with windows sorted ascending and touching windows
// (previous.End == next.Start) merged into one.
func (d DayHours) Normalized() DayHours {
	out := DayHours{DayOfWeek: d.DayOfWeek, IsOpen: d.IsOpen}
	for _, w := range sortedWindows(d.Windows) {
		last := len(out.Windows) - 1
		if last >= 0 && w.Start <= out.Windows[last].End {
			if w.End > out.Windows[last].End {
				out.Windows[last].End = w.End
			}
			continue
		}
		out.Windows = append(out.Windows, w)
	}
	return out
}

// HasOpenWindows returns true if the day is open and has at least one window
func (d DayHours) HasOpenWindows() bool {
	return d.IsOpen && len(d.Windows) > 0
}

// IsOpenAt reports whether minute-of-day m falls inside one of the windows
func (d DayHours) IsOpenAt(m int) bool {
	if !d.IsOpen {
		return false
	}
	for _, w := range d.Windows {
		if m >= w.Start && m < w.End {
			return true
		}
	}
	return false
}

func sortedWindows(windows []TimeWindow) []TimeWindow {
	sorted := make([]TimeWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return sorted
}

// WeeklyHours holds DayHours indexed by time.Weekday
type WeeklyHours [DaysPerWeek]DayHours

// ForDate returns the schedule of the weekday of the given date
func (w WeeklyHours) ForDate(date time.Time) DayHours {
	return w[date.Weekday()]
}

// NewClosedWeek returns a week with every day closed
func NewClosedWeek() WeeklyHours {
	var week WeeklyHours
	for i := range week {
		week[i] = DayHours{DayOfWeek: time.Weekday(i)}
	}
	return week
}

// VacationPeriod is an inclusive calendar date range with no bookings
type VacationPeriod struct {
	StartDate time.Time
	EndDate   time.Time
}

// Validate checks that the period does not end before it starts
func (v VacationPeriod) Validate() error {
	if v.StartDate.IsZero() || v.EndDate.IsZero() {
		return fmt.Errorf("%w: both dates are required", ErrInvalidVacation)
	}
	if civilDate(v.EndDate).Before(civilDate(v.StartDate)) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidVacation,
			v.EndDate.Format(DateFormat), v.StartDate.Format(DateFormat))
	}
	return nil
}

// Covers reports whether StartDate <= date <= EndDate, comparing calendar dates only
func (v VacationPeriod) Covers(date time.Time) bool {
	d := civilDate(date)
	return !d.Before(civilDate(v.StartDate)) && !d.After(civilDate(v.EndDate))
}

// civilDate drops the clock and location so that dates compare by calendar day
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ScheduleSnapshot is an immutable view of the admin-configured schedule
type ScheduleSnapshot struct {
	Hours    WeeklyHours
	Vacation *VacationPeriod // nil = no active vacation
	LoadedAt time.Time
}

// IsVacation reports whether the date is inside the active vacation period
func (s ScheduleSnapshot) IsVacation(date time.Time) bool {
	return s.Vacation != nil && s.Vacation.Covers(date)
}

// DayFor returns the normalized hours for a date
func (s ScheduleSnapshot) DayFor(date time.Time) DayHours {
	return s.Hours.ForDate(date).Normalized()
}
