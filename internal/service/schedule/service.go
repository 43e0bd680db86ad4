package schedule

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис управления часами работы и отпуском.
// После каждого изменения расписание перечитывается, чтобы открытые представления увидели новые данные
type Service struct {
	hoursRepo    HoursRepository
	vacationRepo VacationRepository
	invalidator  ScheduleInvalidator
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	hoursRepo HoursRepository,
	vacationRepo VacationRepository,
	invalidator ScheduleInvalidator,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		hoursRepo:    hoursRepo,
		vacationRepo: vacationRepo,
		invalidator:  invalidator,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetOpeningHours возвращает расписание на неделю и активный отпуск
func (s *Service) GetOpeningHours(ctx context.Context) (*models.OpeningHoursResponse, error) {
	s.logger.Info("GetOpeningHours: fetching weekly hours")

	week, err := s.hoursRepo.GetWeekly(ctx)
	if err != nil {
		s.logger.Error("GetOpeningHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetOpeningHours - repository error: %v", ErrInternal, err)
	}

	vacation, err := s.vacationRepo.Get(ctx)
	if err != nil {
		s.logger.Error("GetOpeningHours: vacation repository error: %v", err)
		return nil, fmt.Errorf("%w: GetOpeningHours - vacation repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(week, vacation), nil
}

// UpdateDayHours заменяет расписание одного дня недели
func (s *Service) UpdateDayHours(ctx context.Context, req *models.UpdateDayHoursRequest) (*models.DayHoursResponse, error) {
	s.logger.Info("UpdateDayHours: day=%d, isOpen=%t, windows=%d", req.DayOfWeek, req.IsOpen, len(req.Windows))

	// 1. Валидация
	day, err := req.ToDomainDayHours()
	if err != nil {
		s.logger.Warn("UpdateDayHours: invalid windows: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := day.Validate(); err != nil {
		s.logger.Warn("UpdateDayHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Сохраняем день целиком в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.hoursRepo.ReplaceDay(txCtx, day)
	})
	if err != nil {
		s.logger.Error("UpdateDayHours: repository error for day=%d: %v", req.DayOfWeek, err)
		return nil, fmt.Errorf("%w: UpdateDayHours - repository error: %v", ErrInternal, err)
	}

	// 3. Оповещаем
	s.invalidate(ctx, "UpdateDayHours")

	s.logger.Info("UpdateDayHours: successfully updated %s", day.DayOfWeek)
	resp := models.FromDomainDayHours(day)
	return &resp, nil
}

// GetVacation возвращает активный отпуск или nil
func (s *Service) GetVacation(ctx context.Context) (*models.VacationResponse, error) {
	vacation, err := s.vacationRepo.Get(ctx)
	if err != nil {
		s.logger.Error("GetVacation: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetVacation - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainVacation(vacation), nil
}

// SetVacation устанавливает отпуск, заменяя предыдущий
func (s *Service) SetVacation(ctx context.Context, req *models.SetVacationRequest) (*models.VacationResponse, error) {
	s.logger.Info("SetVacation: %s..%s", req.StartDate, req.EndDate)

	period, err := req.ToDomainVacation()
	if err != nil {
		s.logger.Warn("SetVacation: invalid dates: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := period.Validate(); err != nil {
		s.logger.Warn("SetVacation: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.vacationRepo.Set(ctx, period); err != nil {
		s.logger.Error("SetVacation: repository error: %v", err)
		return nil, fmt.Errorf("%w: SetVacation - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "SetVacation")

	return models.FromDomainVacation(&period), nil
}

// ClearVacation удаляет отпуск
func (s *Service) ClearVacation(ctx context.Context) error {
	s.logger.Info("ClearVacation: clearing vacation period")

	if err := s.vacationRepo.Clear(ctx); err != nil {
		s.logger.Error("ClearVacation: repository error: %v", err)
		return fmt.Errorf("%w: ClearVacation - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "ClearVacation")
	return nil
}

// invalidate перечитывает расписание. Изменение уже сохранено, поэтому ошибка только логируется:
// периодическое обновление подхватит его позже
func (s *Service) invalidate(ctx context.Context, op string) {
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("%s: schedule invalidation failed: %v", op, err)
	}
}
