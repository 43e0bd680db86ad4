package get_vacation

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgNoVacation = "отпуск не установлен"

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

// Handle GET /api/v1/vacation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetVacation(r.Context())
	if err != nil {
		h.logger.Error("GET /vacation - Failed to get vacation: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	if result == nil {
		handlers.RespondNotFound(w, msgNoVacation)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
