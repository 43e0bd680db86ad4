package get_opening_hours

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

// Handle GET /api/v1/opening-hours
// Публичный endpoint - расписание на неделю и активный отпуск
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetOpeningHours(r.Context())
	if err != nil {
		h.logger.Error("GET /opening-hours - Failed to get opening hours: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
