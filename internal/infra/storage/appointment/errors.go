package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotNotAvailable возвращается, когда ограничение БД отклонило пересекающуюся запись
	ErrSlotNotAvailable = errors.New("appointment.repository: slot not available")

	// ErrSerializationFailure возвращается, когда Postgres отменил запрос сериализуемой транзакции (40001)
	ErrSerializationFailure = errors.New("appointment.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
