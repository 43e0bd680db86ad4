package get_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	getCalendar "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_calendar"
)

const (
	msgInvalidStaffID = "некорректный ID мастера"
	msgInvalidDates   = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
	msgRangeTooLarge  = "слишком большой период"
)

type Handler struct {
	useCase GetCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar
// Query params: from (required), to, staffId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.OptionalQueryInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /calendar - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	from, to, err := handlers.QueryDateRange(r)
	if err != nil {
		h.logger.Warn("GET /calendar - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getCalendar.Request{From: from, To: to, StaffID: staffID})
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrConfigurationUnavailable):
			h.logger.Warn("GET /calendar - Schedule not loaded")
			handlers.RespondServiceUnavailable(w)

		case errors.Is(err, getCalendar.ErrRangeTooLarge):
			handlers.RespondBadRequest(w, msgRangeTooLarge)

		case errors.Is(err, getCalendar.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDates)

		default:
			h.logger.Error("GET /calendar - Failed to build calendar: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendar - Calendar built: days=%d, conflicts=%d", len(result.Grid.Days), len(result.Grid.Conflicts))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
