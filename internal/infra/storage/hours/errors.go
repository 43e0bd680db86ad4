package hours

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("hours.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("hours.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("hours.repository: failed to scan row")

	// ErrInvalidDay возвращается, когда в БД оказался некорректный день недели
	ErrInvalidDay = errors.New("hours.repository: invalid day of week")
)
