package list_appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
	msgRangeTooLarge = "слишком большой период"
)

type Handler struct {
	service      AppointmentService
	location     *time.Location
	maxRangeDays int
	logger       Logger
}

func NewHandler(service AppointmentService, location *time.Location, maxRangeDays int, logger Logger) *Handler {
	return &Handler{
		service:      service,
		location:     location,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Handle GET /api/v1/appointments
// Query params: from (required), to, staffId, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from, to, err := handlers.QueryDateRange(r)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	staffID, err := handlers.OptionalQueryInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	includeCancelled, err := handlers.QueryBool(r, "includeCancelled")
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid includeCancelled: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	days := int(to.Sub(from).Hours()/24) + 1
	if h.maxRangeDays > 0 && days > h.maxRangeDays {
		h.logger.Warn("GET /appointments - Range too large: days=%d, max=%d", days, h.maxRangeDays)
		handlers.RespondBadRequest(w, msgRangeTooLarge)
		return
	}

	result, err := h.service.List(r.Context(), ToServiceRequest(from, to, staffID, includeCancelled, h.location))
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("GET /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}

		h.logger.Error("GET /appointments - Failed to list appointments: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved successfully: count=%d", len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
