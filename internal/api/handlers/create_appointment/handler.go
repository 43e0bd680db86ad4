package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgSlotNotAvailable   = "выбранное время уже занято, выберите другое"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "мастер не найден"
	msgStartInPast        = "время записи уже прошло"
	msgInvalidTimeSlot    = "выбранное время недоступно для записи"
	msgInvalidInput       = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrConfigurationUnavailable):
			h.logger.Warn("POST /appointments - Schedule not loaded: staff_id=%d", req.StaffID)
			handlers.RespondServiceUnavailable(w)

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: staff_id=%d, date=%s, time=%s",
				req.StaffID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotFound):
			h.logger.Warn("POST /appointments - Staff not found: staff_id=%d", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createAppointment.ErrStartInPast):
			h.logger.Warn("POST /appointments - Start in past: staff_id=%d, date=%s, time=%s",
				req.StaffID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: staff_id=%d, error=%v", req.StaffID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: staff_id=%d, service_id=%d, error=%v",
				req.StaffID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, staff_id=%d",
		result.ID, result.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
