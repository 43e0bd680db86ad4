package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден или не работает
	ErrStaffNotFound = errors.New("get_available_slots: staff member not found")

	// ErrRangeTooLarge возвращается, когда запрошенный период длиннее допустимого
	ErrRangeTooLarge = errors.New("get_available_slots: date range is too large")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
