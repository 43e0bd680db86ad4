package reschedule_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgNotFound             = "запись не найдена"
	msgCannotReschedule     = "запись не может быть перенесена"
	msgSlotNotAvailable     = "выбранное время уже занято, выберите другое"
	msgStartInPast          = "время записи уже прошло"
	msgInvalidTimeSlot      = "выбранное время недоступно для записи"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrConfigurationUnavailable):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Schedule not loaded: appointment_id=%d", appointmentID)
			handlers.RespondServiceUnavailable(w)

		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrCannotReschedule):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Cannot reschedule: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, rescheduleAppointment.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot not available: appointment_id=%d, date=%s, time=%s",
				appointmentID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleAppointment.ErrStartInPast):
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, rescheduleAppointment.ErrInvalidTimeSlot),
			errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid time slot: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment rescheduled: appointment_id=%d", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
