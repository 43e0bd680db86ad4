package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден или не работает
	ErrStaffNotFound = errors.New("create_appointment: staff member not found")

	// ErrStartInPast возвращается при попытке записаться на прошедшее время
	ErrStartInPast = errors.New("create_appointment: start time is in the past")

	// ErrInvalidTimeSlot возвращается, когда время вне рабочих часов, в отпуск или не на сетке
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда слот заняли после того, как клиент его увидел
	ErrSlotNotAvailable = errors.New("create_appointment: slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
