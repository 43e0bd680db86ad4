package update_opening_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

const (
	msgInvalidDayOfWeek   = "некорректный день недели, ожидается число от 0 (воскресенье) до 6"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWindows     = "некорректные рабочие окна: ожидается HH:MM, окончание позже начала, окна не пересекаются"
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

// Handle PUT /api/v1/opening-hours/{dayOfWeek}
// Полностью заменяет расписание дня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dayStr := mux.Vars(r)["dayOfWeek"]
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 0 || day > 6 {
		h.logger.Warn("PUT /opening-hours/{day} - Invalid day of week: %q", dayStr)
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
		return
	}

	var req models.UpdateDayHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /opening-hours/{day} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.DayOfWeek = day

	result, err := h.service.UpdateDayHours(r.Context(), &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PUT /opening-hours/{day} - Invalid windows: day=%d, error=%v", day, err)
			handlers.RespondBadRequest(w, msgInvalidWindows)
			return
		}

		h.logger.Error("PUT /opening-hours/{day} - Failed to update hours: day=%d, error=%v", day, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /opening-hours/{day} - Opening hours updated: day=%d, windows=%d", day, len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, result)
}
