package scheduling

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// ScheduleSource источник текущего снимка расписания (часы работы + отпуск)
// Второе значение false, пока расписание ни разу не было загружено
type ScheduleSource interface {
	Snapshot() (domain.ScheduleSnapshot, bool)
}
