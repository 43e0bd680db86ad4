package schedule_events

import (
	"github.com/m04kA/SMC-AppointmentService/internal/schedulestore"
)

// ScheduleNotifier источник уведомлений об изменении расписания
type ScheduleNotifier interface {
	Subscribe(fn schedulestore.Listener) func()
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
