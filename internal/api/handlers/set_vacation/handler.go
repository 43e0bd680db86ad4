package set_vacation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPeriod      = "некорректный период отпуска: даты в формате YYYY-MM-DD, окончание не раньше начала"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/vacation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.SetVacationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vacation - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetVacation(r.Context(), &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PUT /vacation - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}

		h.logger.Error("PUT /vacation - Failed to set vacation: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /vacation - Vacation set: %s..%s", result.StartDate, result.EndDate)
	handlers.RespondJSON(w, http.StatusOK, result)
}
