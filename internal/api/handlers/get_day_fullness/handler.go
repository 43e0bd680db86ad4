package get_day_fullness

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	getDayFullness "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_day_fullness"
)

const (
	msgInvalidStaffID = "некорректный ID мастера"
	msgInvalidDates   = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
	msgRangeTooLarge  = "слишком большой период"
	msgStaffNotFound  = "мастер не найден"
)

type Handler struct {
	useCase GetDayFullnessUseCase
	logger  Logger
}

func NewHandler(useCase GetDayFullnessUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/fullness
// Query params: from (required), to
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/fullness - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	from, to, err := handlers.QueryDateRange(r)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/fullness - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getDayFullness.Request{StaffID: staffID, From: from, To: to})
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrConfigurationUnavailable):
			h.logger.Warn("GET /staff/{id}/fullness - Schedule not loaded: staff_id=%d", staffID)
			handlers.RespondServiceUnavailable(w)

		case errors.Is(err, getDayFullness.ErrStaffNotFound):
			h.logger.Warn("GET /staff/{id}/fullness - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getDayFullness.ErrRangeTooLarge):
			handlers.RespondBadRequest(w, msgRangeTooLarge)

		case errors.Is(err, getDayFullness.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDates)

		default:
			h.logger.Error("GET /staff/{id}/fullness - Failed to compute fullness: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
