package get_calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// UseCase построение сетки календаря для администратора
type UseCase struct {
	appointmentRepo AppointmentRepository
	engine          CalendarEngine
	metrics         Metrics
	maxRangeDays    int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	engine CalendarEngine,
	metrics Metrics,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		engine:          engine,
		metrics:         metrics,
		maxRangeDays:    maxRangeDays,
		logger:          logger,
	}
}

// Execute раскладывает записи видимых дат по сетке.
// Несогласованные записи не прячутся: они логируются и возвращаются в Grid.Conflicts
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCalendar: from=%s, to=%s, staff=%v",
		req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), staffLabel(req.StaffID))

	// 1. Валидация
	if req.From.IsZero() {
		return nil, fmt.Errorf("%w: from date is required", ErrInvalidInput)
	}
	if req.StaffID != nil && *req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	to := req.To
	if to.IsZero() {
		to = req.From
	}

	// 2. Видимые даты
	loc := uc.engine.Location()
	rng, err := scheduling.NewDateRange(domain.DateIn(req.From, loc), domain.DateIn(to, loc).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if uc.maxRangeDays > 0 && rng.Len() > uc.maxRangeDays {
		return nil, fmt.Errorf("%w: at most %d days allowed", ErrRangeTooLarge, uc.maxRangeDays)
	}

	// 3. Записи всех или одного мастера
	appointments, err := uc.appointmentRepo.ListByFilter(ctx, domain.AppointmentsFilter{
		StaffID: req.StaffID,
		From:    rng.From,
		To:      rng.To,
	})
	if err != nil {
		uc.logger.Error("GetCalendar: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 4. Сетка
	grid, err := uc.engine.MapAppointmentsToGrid(appointments, rng.Days(), domain.SlotGranularityMinutes)
	if err != nil {
		if errors.Is(err, scheduling.ErrConfigurationUnavailable) {
			uc.logger.Warn("GetCalendar: schedule is not loaded yet")
			return nil, err
		}
		uc.logger.Error("GetCalendar: failed to build grid: %v", err)
		return nil, fmt.Errorf("%w: failed to build grid: %v", ErrInternal, err)
	}

	// 5. Несогласованные данные
	for _, c := range grid.Conflicts {
		uc.metrics.IncCalendarConflict(string(c.Kind))
		uc.logger.Warn("GetCalendar: %s for staff=%d at %s %s, appointments=%v, shown=%d",
			c.Kind, c.StaffID, c.Date.Format(domain.DateFormat), domain.FormatMinuteOfDay(c.Minute),
			c.AppointmentIDs, c.WinnerID)
	}

	uc.logger.Info("GetCalendar: built %d days with %d appointments, %d conflicts",
		len(grid.Days), len(appointments), len(grid.Conflicts))

	return &Response{StaffID: req.StaffID, Grid: grid}, nil
}

func staffLabel(staffID *int64) string {
	if staffID == nil {
		return "all"
	}
	return fmt.Sprintf("%d", *staffID)
}
