package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	txManager       TransactionManager
	location        *time.Location
	now             func() time.Time
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		txManager:       txManager,
		location:        location,
		now:             time.Now,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt, s.location), nil
}

// List получает записи за период, опционально по одному мастеру
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments from=%s to=%s, staff=%v, includeCancelled=%t",
		req.From.Format(time.RFC3339), req.To.Format(time.RFC3339), req.StaffID, req.IncludeCancelled)

	if req.From.IsZero() || req.To.IsZero() || !req.To.After(req.From) {
		return nil, fmt.Errorf("%w: a non-empty period is required", ErrInvalidInput)
	}

	var appointments []*domain.Appointment
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		appointments, err = s.appointmentRepo.ListByFilter(txCtx, req.ToDomainFilter())
		return err
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments, s.location), nil
}

// Cancel отменяет запись. Повторная отмена уже отмененной записи не считается ошибкой
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d", id)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLen {
		return fmt.Errorf("%w: cancellation reason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLen)
	}

	var (
		cancelled   *domain.Appointment
		alreadyDone bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Строка блокируется до конца транзакции
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if appt.IsCancelled() {
			alreadyDone = true
			return nil
		}
		if !appt.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, id, req.CancellationReason); err != nil {
			return err
		}

		appt.Status = domain.StatusCancelled
		appt.CancellationReason = req.CancellationReason
		cancelled = appt
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("Cancel: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		case errors.Is(err, ErrCannotCancel):
			return err
		default:
			s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
	}

	if alreadyDone {
		s.logger.Info("Cancel: appointment id=%d is already cancelled", id)
		return nil
	}

	s.publish(ctx, domain.EventAppointmentCancelled, cancelled)
	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

// UpdateStatus переводит запись в новый статус по жизненному циклу.
// Отмена и перенос выполняются отдельными операциями
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", id, req.Status)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if newStatus == domain.StatusCancelled || newStatus == domain.StatusRescheduled {
		return fmt.Errorf("%w: use the dedicated endpoint for status %s", ErrInvalidInput, newStatus)
	}

	var updated *domain.Appointment

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if !appt.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				appt.Status, newStatus, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, newStatus)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			return err
		}

		appt.Status = newStatus
		updated = appt
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("UpdateStatus: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		case errors.Is(err, ErrInvalidTransition):
			return err
		default:
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	s.publish(ctx, domain.EventAppointmentStatusChanged, updated)
	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return nil
}

// publish отправляет событие после коммита; ошибка только логируется
func (s *Service) publish(ctx context.Context, eventType domain.AppointmentEventType, appt *domain.Appointment) {
	event := domain.NewAppointmentEvent(eventType, appt, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish: failed to publish %s for appointment id=%d: %v", eventType, appt.ID, err)
	}
}
