package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrCannotCancel возвращается, когда запись уже нельзя отменить
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrInvalidTransition возвращается, когда переход в новый статус запрещен
	ErrInvalidTransition = errors.New("status transition is not allowed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
