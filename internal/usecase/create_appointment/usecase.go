package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
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
	catalogRepo CatalogRepository,
	validator BookingValidator,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		validator:       validator,
		publisher:       publisher,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Слот перепроверяется внутри сериализуемой транзакции, последнее слово за ограничением БД
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: staff=%d, service=%d, date=%s, time=%s",
		req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat), domain.FormatMinuteOfDay(req.StartMinute))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Время начала в часовом поясе заведения
	startAt := domain.AtMinute(domain.DateIn(req.Date, uc.validator.Location()), req.StartMinute)
	if !startAt.After(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateAppointment: start %s is in the past", startAt.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Получаем мастера
	staff, err := uc.catalogRepo.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		uc.logger.Warn("CreateAppointment: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffNotFound
	}

	endAt := startAt.Add(time.Duration(service.DurationMinutes) * time.Minute)

	var result *domain.Appointment

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Записи мастера, пересекающие кандидата, с блокировкой (FOR UPDATE)
		appointments, err := uc.appointmentRepo.ListByFilter(txCtx, domain.AppointmentsFilter{
			StaffID: ptr.Ptr(req.StaffID),
			From:    startAt,
			To:      endAt,
		})
		if err != nil {
			if appointmentRepo.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 5.2. Повторная проверка слота
		err = uc.validator.ValidateBooking(scheduling.BookingCandidate{
			StaffID:         req.StaffID,
			Start:           startAt,
			DurationMinutes: service.DurationMinutes,
		}, appointments)
		if err != nil {
			if errors.Is(err, scheduling.ErrSlotConflict) {
				uc.metrics.IncBookingConflict("validation")
			}
			uc.logger.Warn("CreateAppointment: slot rejected: %v", err)
			return mapValidationError(err)
		}

		// 5.3. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			StaffID:         req.StaffID,
			ServiceID:       req.ServiceID,
			StartAt:         startAt,
			EndAt:           ptr.Ptr(endAt),
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusScheduled,
			ClientName:      strings.TrimSpace(req.ClientName),
			ClientPhone:     req.ClientPhone,
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				uc.metrics.IncBookingConflict("constraint")
				uc.logger.Warn("CreateAppointment: exclusion constraint rejected staff=%d at %s",
					req.StaffID, startAt.Format(time.RFC3339))
				return ErrSlotNotAvailable
			}
			if appointmentRepo.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if appointmentRepo.IsSerializationFailure(err) {
			uc.metrics.IncBookingConflict("serialization")
			uc.logger.Warn("CreateAppointment: concurrent booking for staff=%d at %s",
				req.StaffID, startAt.Format(time.RFC3339))
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 6. Событие публикуется после коммита, ошибка публикации не отменяет запись
	event := domain.NewAppointmentEvent(domain.EventAppointmentCreated, result, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateAppointment: failed to publish event for id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:              result.ID,
		StaffID:         result.StaffID,
		ServiceID:       result.ServiceID,
		ServiceName:     service.Name,
		StartAt:         result.StartAt.In(startAt.Location()),
		EndAt:           result.EffectiveEnd().In(startAt.Location()),
		DurationMinutes: result.DurationMinutes,
		Status:          result.Status,
		ClientName:      result.ClientName,
		ClientPhone:     result.ClientPhone,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
