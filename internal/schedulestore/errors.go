package schedulestore

import "errors"

var (
	// ErrLoadHours возвращается, когда не удалось загрузить часы работы
	ErrLoadHours = errors.New("schedulestore: failed to load opening hours")

	// ErrLoadVacation возвращается, когда не удалось загрузить отпуск
	ErrLoadVacation = errors.New("schedulestore: failed to load vacation")
)
