package domain

import (
	"time"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusInProgress  AppointmentStatus = "in_progress"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusNoShow      AppointmentStatus = "no_show"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// IsValid returns true if the status is one of the known values
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}

// Appointment represents a booked service for one staff member
type Appointment struct {
	ID              int64
	StaffID         int64
	ServiceID       int64
	StartAt         time.Time
	EndAt           *time.Time // nil = StartAt + DurationMinutes
	DurationMinutes int        // denormalized from the service at booking time
	Status          AppointmentStatus

	ClientName  string
	ClientPhone *string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveEnd returns the exclusive end of the occupied interval [StartAt, EffectiveEnd)
func (a *Appointment) EffectiveEnd() time.Time {
	if a.EndAt != nil {
		return *a.EndAt
	}
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Duration returns the length of the occupied interval
func (a *Appointment) Duration() time.Duration {
	return a.EffectiveEnd().Sub(a.StartAt)
}

// OccupiesSlot returns true if the appointment blocks the staff member's time.
// Cancelled appointments never occupy a slot.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusScheduled ||
		a.Status == StatusConfirmed ||
		a.Status == StatusRescheduled
}

// CanBeRescheduled returns true if the appointment can be moved to another time
func (a *Appointment) CanBeRescheduled() bool {
	return a.CanBeCancelled()
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsFinished returns true if the appointment is completed or was a no-show
func (a *Appointment) IsFinished() bool {
	return a.Status == StatusCompleted || a.Status == StatusNoShow
}

// CanTransitionTo reports whether a status change from the current status is allowed
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if !next.IsValid() || next == a.Status {
		return false
	}
	switch a.Status {
	case StatusScheduled, StatusRescheduled:
		return next == StatusConfirmed || next == StatusInProgress ||
			next == StatusCancelled || next == StatusNoShow
	case StatusConfirmed:
		return next == StatusInProgress || next == StatusCancelled || next == StatusNoShow
	case StatusInProgress:
		return next == StatusCompleted
	}
	return false
}

// AppointmentsFilter фильтр для выборки записей
type AppointmentsFilter struct {
	StaffID          *int64    // nil = все мастера
	From             time.Time // начало периода (включительно)
	To               time.Time // конец периода (не включительно)
	IncludeCancelled bool
}

// Service is a bookable service with a fixed duration
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Active          bool
}

// StaffMember is an employee who performs services
type StaffMember struct {
	ID     int64
	Name   string
	Active bool
}
