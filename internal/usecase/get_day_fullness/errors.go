package get_day_fullness

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден или не работает
	ErrStaffNotFound = errors.New("get_day_fullness: staff member not found")

	// ErrRangeTooLarge возвращается, когда запрошенный период длиннее допустимого
	ErrRangeTooLarge = errors.New("get_day_fullness: date range is too large")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_day_fullness: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_day_fullness: internal error")
)
