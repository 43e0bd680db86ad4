package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrCannotReschedule возвращается, когда запись в статусе, не допускающем перенос
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled in its current status")

	// ErrStartInPast возвращается при переносе на прошедшее время
	ErrStartInPast = errors.New("reschedule_appointment: start time is in the past")

	// ErrInvalidTimeSlot возвращается, когда новое время вне рабочих часов, в отпуск или не на сетке
	ErrInvalidTimeSlot = errors.New("reschedule_appointment: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда новое время занято
	ErrSlotNotAvailable = errors.New("reschedule_appointment: slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
