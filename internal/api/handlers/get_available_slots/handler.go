package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidStaffID   = "некорректный ID мастера"
	msgInvalidServiceID = "ID услуги обязателен и должен быть положительным числом"
	msgInvalidDates     = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
	msgInvalidPeriod    = "некорректный режим, ожидается full, morning или afternoon"
	msgRangeTooLarge    = "слишком большой период"
	msgStaffNotFound    = "мастер не найден"
	msgServiceNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/available-slots
// Query params: serviceId (required), from (required, YYYY-MM-DD), to, period
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/available-slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	from, to, err := handlers.QueryDateRange(r)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/available-slots - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	useCaseReq, err := ToUseCaseRequest(staffID, serviceID, from, to, r.URL.Query().Get("period"))
	if err != nil {
		h.logger.Warn("GET /staff/{id}/available-slots - Invalid period: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrConfigurationUnavailable):
			h.logger.Warn("GET /staff/{id}/available-slots - Schedule not loaded: staff_id=%d", staffID)
			handlers.RespondServiceUnavailable(w)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /staff/{id}/available-slots - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /staff/{id}/available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrRangeTooLarge):
			h.logger.Warn("GET /staff/{id}/available-slots - Range too large: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgRangeTooLarge)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/available-slots - Invalid input: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidDates)

		default:
			h.logger.Error("GET /staff/{id}/available-slots - Failed to get slots: staff_id=%d, service_id=%d, error=%v",
				staffID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /staff/{id}/available-slots - Slots retrieved successfully: staff_id=%d, service_id=%d, days=%d",
		staffID, serviceID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}
