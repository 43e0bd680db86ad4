package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// Request модель запроса календаря
type Request struct {
	From    time.Time // первая видимая дата
	To      time.Time // последняя видимая дата, нулевое значение означает один день
	StaffID *int64    // nil = все мастера
}

// Response сетка календаря
type Response struct {
	StaffID *int64
	Grid    scheduling.Grid
}
