package get_calendar

import "errors"

var (
	// ErrRangeTooLarge возвращается, когда запрошено слишком много дней
	ErrRangeTooLarge = errors.New("get_calendar: date range is too large")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_calendar: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_calendar: internal error")
)
