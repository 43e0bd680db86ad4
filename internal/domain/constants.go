package domain

// Scheduling grid constants
const (
	SlotGranularityMinutes = 15
	MinutesPerDay          = 24 * 60
	DaysPerWeek            = 7

	// AfternoonStartMinute separates the morning and afternoon presentation groups (13:00)
	AfternoonStartMinute = 13 * 60
)

// Fullness thresholds, percent of generated offsets already occupied
const (
	FullnessMediumFromPercent = 33
	FullnessHighFromPercent   = 66
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxWindowsPerDay          = 6
	MaxNotesLength            = 500
	MaxCancellationReasonLen  = 500
	DefaultMaxRangeDays       = 62
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses список статусов, при которых запись занимает время мастера
var OccupyingStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusNoShow,
	StatusRescheduled,
}
