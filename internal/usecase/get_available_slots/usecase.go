package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase use case для получения доступных слотов мастера
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	engine          AvailabilityEngine
	metrics         Metrics
	maxRangeDays    int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	engine AvailabilityEngine,
	metrics Metrics,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		engine:          engine,
		metrics:         metrics,
		maxRangeDays:    maxRangeDays,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: staff=%d, service=%d, from=%s, to=%s, period=%q",
		req.StaffID, req.ServiceID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.Period)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}
	period, _ := scheduling.ParsePeriod(string(req.Period))

	// 2. Диапазон дат в часовом поясе заведения
	rng, err := buildRange(req.From, req.To, uc.engine.Location(), uc.maxRangeDays)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid range: %v", err)
		return nil, err
	}

	// 3. Получаем услугу, она задает длительность
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Проверяем мастера
	staff, err := uc.catalogRepo.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		uc.logger.Warn("GetAvailableSlots: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffNotFound
	}

	// 5. Получаем записи мастера, пересекающие диапазон
	appointments, err := uc.appointmentRepo.ListByFilter(ctx, domain.AppointmentsFilter{
		StaffID: ptr.Ptr(req.StaffID),
		From:    rng.From,
		To:      rng.To,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Считаем слоты
	slots, err := uc.engine.FindAvailableSlotsInPeriod(rng, service.DurationMinutes, req.StaffID, appointments, period)
	if err != nil {
		if errors.Is(err, scheduling.ErrConfigurationUnavailable) {
			uc.logger.Warn("GetAvailableSlots: schedule is not loaded yet")
			return nil, err
		}
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	// 7. Убираем прошедшее время и группируем по датам
	slots = dropPastSlots(slots, uc.timeProvider.Now())
	days := groupByDate(slots, service.DurationMinutes)

	uc.metrics.ObserveSlotSearch(string(period), len(slots))
	uc.logger.Info("GetAvailableSlots: found %d slots in %d days for staff=%d, service=%d",
		len(slots), len(days), req.StaffID, req.ServiceID)

	return &Response{
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Period:          period,
		From:            rng.From,
		To:              rng.To.AddDate(0, 0, -1),
		Days:            days,
	}, nil
}
