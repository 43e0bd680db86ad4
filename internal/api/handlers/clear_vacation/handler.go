package clear_vacation

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
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

// Handle DELETE /api/v1/vacation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearVacation(r.Context()); err != nil {
		h.logger.Error("DELETE /vacation - Failed to clear vacation: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /vacation - Vacation cleared")
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
