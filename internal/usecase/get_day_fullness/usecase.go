package get_day_fullness

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase превью занятости дней мастера для календаря
type UseCase struct {
	appointmentRepo AppointmentRepository
	staffRepo       StaffRepository
	engine          AvailabilityEngine
	maxRangeDays    int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	staffRepo StaffRepository,
	engine AvailabilityEngine,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		staffRepo:       staffRepo,
		engine:          engine,
		maxRangeDays:    maxRangeDays,
		logger:          logger,
	}
}

// Execute считает уровень занятости для каждого дня периода
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDayFullness: staff=%d, from=%s, to=%s",
		req.StaffID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация
	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if req.From.IsZero() {
		return nil, fmt.Errorf("%w: from date is required", ErrInvalidInput)
	}
	to := req.To
	if to.IsZero() {
		to = req.From
	}

	// 2. Диапазон в часовом поясе заведения
	loc := uc.engine.Location()
	rng, err := scheduling.NewDateRange(domain.DateIn(req.From, loc), domain.DateIn(to, loc).AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Warn("GetDayFullness: invalid range: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if uc.maxRangeDays > 0 && rng.Len() > uc.maxRangeDays {
		uc.logger.Warn("GetDayFullness: range of %d days exceeds limit %d", rng.Len(), uc.maxRangeDays)
		return nil, fmt.Errorf("%w: at most %d days allowed", ErrRangeTooLarge, uc.maxRangeDays)
	}

	// 3. Мастер
	staff, err := uc.staffRepo.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetDayFullness: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetDayFullness: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		return nil, ErrStaffNotFound
	}

	// 4. Записи мастера за период
	appointments, err := uc.appointmentRepo.ListByFilter(ctx, domain.AppointmentsFilter{
		StaffID: ptr.Ptr(req.StaffID),
		From:    rng.From,
		To:      rng.To,
	})
	if err != nil {
		uc.logger.Error("GetDayFullness: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Превью
	fullness, err := uc.engine.DayFullness(rng, req.StaffID, appointments)
	if err != nil {
		if errors.Is(err, scheduling.ErrConfigurationUnavailable) {
			uc.logger.Warn("GetDayFullness: schedule is not loaded yet")
			return nil, err
		}
		uc.logger.Error("GetDayFullness: failed to compute fullness: %v", err)
		return nil, fmt.Errorf("%w: failed to compute fullness: %v", ErrInternal, err)
	}

	days := make([]Day, 0, len(fullness))
	for _, f := range fullness {
		days = append(days, Day{
			Date:            f.Date,
			Closed:          f.Closed,
			Vacation:        f.Vacation,
			Available:       f.Available,
			Total:           f.Total,
			OccupiedPercent: f.OccupiedPercent(),
			Level:           f.Level,
		})
	}

	return &Response{StaffID: req.StaffID, Days: days}, nil
}
