package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeOfDay is returned when a "HH:MM" string cannot be parsed
var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// AvailableSlot represents a bookable start instant; duration belongs to the request
type AvailableSlot struct {
	Date   time.Time // midnight of the calendar day in the shop location
	Minute int       // minute of day
}

// StartAt returns the absolute start instant of the slot
func (s AvailableSlot) StartAt() time.Time {
	return AtMinute(s.Date, s.Minute)
}

// TimeString returns the slot time as HH:MM
func (s AvailableSlot) TimeString() string {
	return FormatMinuteOfDay(s.Minute)
}

// AtMinute builds the wall-clock instant of minute-of-day m on the date's calendar day.
// The instant is built from wall-clock fields so DST shifts never move the slot.
func AtMinute(date time.Time, m int) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, date.Location())
}

// MinuteOfDay returns minutes since local midnight of t
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// StartOfDay returns local midnight of t's calendar day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether both instants fall on the same calendar day
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ParseMinuteOfDay parses "HH:MM" into minutes since midnight. "24:00" is accepted as 1440
// so that a window can close at midnight.
func ParseMinuteOfDay(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	if h == 24 && m == 0 {
		return MinutesPerDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return h*60 + m, nil
}

// FormatMinuteOfDay formats minutes since midnight as "HH:MM"
func FormatMinuteOfDay(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// DateIn returns midnight of t's calendar date (as written in t's own location) in loc.
// Dates parsed from "YYYY-MM-DD" are UTC; this re-anchors them to the shop location.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
