package scheduling

import "errors"

var (
	// ErrConfigurationUnavailable возвращается, когда часы работы и отпуск еще не загружены.
	// Вызывающий код не должен трактовать это как "все занято"
	ErrConfigurationUnavailable = errors.New("scheduling: schedule configuration is not loaded")

	// ErrInvalidRange возвращается, когда конец периода раньше начала
	ErrInvalidRange = errors.New("scheduling: invalid date range")

	// ErrInvalidDuration возвращается при неположительной длительности
	ErrInvalidDuration = errors.New("scheduling: invalid duration")

	// ErrStaffRequired возвращается, когда не указан мастер
	ErrStaffRequired = errors.New("scheduling: staff id is required")

	// ErrDayClosed возвращается, когда в выбранный день нет рабочих окон
	ErrDayClosed = errors.New("scheduling: closed on this date")

	// ErrVacation возвращается, когда дата попадает в отпуск
	ErrVacation = errors.New("scheduling: date is inside the vacation period")

	// ErrNotAligned возвращается, когда время начала внутри окна не совпадает ни с одним слотом дня
	ErrNotAligned = errors.New("scheduling: start time is not aligned to the slot grid")

	// ErrOutsideWorkingHours возвращается, когда запись не помещается целиком в одно рабочее окно
	ErrOutsideWorkingHours = errors.New("scheduling: appointment does not fit into a working window")

	// ErrSlotConflict возвращается, когда время уже занято другой записью мастера
	ErrSlotConflict = errors.New("scheduling: slot is already taken")
)
