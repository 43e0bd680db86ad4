package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase перенос записи на другое время того же мастера
type UseCase struct {
	appointmentRepo AppointmentRepository
	validator       BookingValidator
	publisher       EventPublisher
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	validator BookingValidator,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		validator:       validator,
		publisher:       publisher,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переносит запись. Сама запись не считается конфликтом для нового времени,
// длительность сохраняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, date=%s, time=%s",
		req.AppointmentID, req.Date.Format(domain.DateFormat), domain.FormatMinuteOfDay(req.StartMinute))

	// 1. Валидация
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartMinute < 0 || req.StartMinute >= domain.MinutesPerDay {
		return nil, fmt.Errorf("%w: start time is out of range", ErrInvalidInput)
	}

	// 2. Новое время начала
	startAt := domain.AtMinute(domain.DateIn(req.Date, uc.validator.Location()), req.StartMinute)
	if !startAt.After(uc.timeProvider.Now()) {
		uc.logger.Warn("RescheduleAppointment: start %s is in the past", startAt.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	var (
		result        *domain.Appointment
		previousStart time.Time
	)

	// 3. Сериализуемая транзакция
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем запись
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			if appointmentRepo.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d has status %s", appt.ID, appt.Status)
			return ErrCannotReschedule
		}

		duration := int(appt.Duration() / time.Minute)
		endAt := startAt.Add(appt.Duration())

		// 3.2. Записи мастера на новом интервале
		appointments, err := uc.appointmentRepo.ListByFilter(txCtx, domain.AppointmentsFilter{
			StaffID: ptr.Ptr(appt.StaffID),
			From:    startAt,
			To:      endAt,
		})
		if err != nil {
			if appointmentRepo.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 3.3. Повторная проверка без учета самой записи
		err = uc.validator.ValidateBooking(scheduling.BookingCandidate{
			StaffID:              appt.StaffID,
			Start:                startAt,
			DurationMinutes:      duration,
			ExcludeAppointmentID: appt.ID,
		}, appointments)
		if err != nil {
			uc.logger.Warn("RescheduleAppointment: slot rejected for id=%d: %v", appt.ID, err)
			return uc.mapValidationError(err)
		}

		// 3.4. Переносим
		if err := uc.appointmentRepo.Reschedule(txCtx, appt.ID, startAt, endAt, domain.StatusRescheduled); err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				uc.metrics.IncBookingConflict("constraint")
				return ErrSlotNotAvailable
			}
			if appointmentRepo.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("RescheduleAppointment: failed to update appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		previousStart = appt.StartAt
		appt.StartAt = startAt
		appt.EndAt = ptr.Ptr(endAt)
		appt.Status = domain.StatusRescheduled
		result = appt
		return nil
	})

	if err != nil {
		if appointmentRepo.IsSerializationFailure(err) {
			uc.metrics.IncBookingConflict("serialization")
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved from %s to %s",
		result.ID, previousStart.Format(time.RFC3339), result.StartAt.Format(time.RFC3339))

	// 4. Событие после коммита
	event := domain.NewAppointmentEvent(domain.EventAppointmentRescheduled, result, uc.timeProvider.Now())
	event.PreviousStart = ptr.Ptr(previousStart)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("RescheduleAppointment: failed to publish event for id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:              result.ID,
		StaffID:         result.StaffID,
		ServiceID:       result.ServiceID,
		PreviousStartAt: previousStart.In(startAt.Location()),
		StartAt:         result.StartAt.In(startAt.Location()),
		EndAt:           result.EffectiveEnd().In(startAt.Location()),
		DurationMinutes: result.DurationMinutes,
		Status:          result.Status,
	}, nil
}

// mapValidationError переводит ошибки движка в ошибки use case
func (uc *UseCase) mapValidationError(err error) error {
	switch {
	case errors.Is(err, scheduling.ErrSlotConflict):
		uc.metrics.IncBookingConflict("validation")
		return ErrSlotNotAvailable
	case errors.Is(err, scheduling.ErrConfigurationUnavailable):
		return err
	case errors.Is(err, scheduling.ErrDayClosed),
		errors.Is(err, scheduling.ErrVacation),
		errors.Is(err, scheduling.ErrNotAligned),
		errors.Is(err, scheduling.ErrOutsideWorkingHours):
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	default:
		return fmt.Errorf("%w: validate booking: %v", ErrInternal, err)
	}
}
