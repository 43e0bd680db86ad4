package domain

import "time"

// AppointmentEventType type of an appointment lifecycle event
type AppointmentEventType string

const (
	EventAppointmentCreated       AppointmentEventType = "appointment.created"
	EventAppointmentRescheduled   AppointmentEventType = "appointment.rescheduled"
	EventAppointmentCancelled     AppointmentEventType = "appointment.cancelled"
	EventAppointmentStatusChanged AppointmentEventType = "appointment.status_changed"
)

// AppointmentEvent is published after a lifecycle change has been committed
type AppointmentEvent struct {
	Type          AppointmentEventType
	AppointmentID int64
	StaffID       int64
	ServiceID     int64
	Status        AppointmentStatus
	StartAt       time.Time
	EndAt         time.Time
	PreviousStart *time.Time // set for reschedules
	OccurredAt    time.Time
}

// NewAppointmentEvent builds an event from the current appointment state
func NewAppointmentEvent(eventType AppointmentEventType, appt *Appointment, occurredAt time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:          eventType,
		AppointmentID: appt.ID,
		StaffID:       appt.StaffID,
		ServiceID:     appt.ServiceID,
		Status:        appt.Status,
		StartAt:       appt.StartAt,
		EndAt:         appt.EffectiveEnd(),
		OccurredAt:    occurredAt,
	}
}
