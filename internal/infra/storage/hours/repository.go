package hours

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	hoursTable   = "opening_hours"
	windowsTable = "opening_hour_windows"
)

// Repository репозиторий часов работы
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория часов работы
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeekly получает часы работы на всю неделю
// Дни, отсутствующие в БД, считаются закрытыми
func (r *Repository) GetWeekly(ctx context.Context) (domain.WeeklyHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	week := domain.NewClosedWeek()

	// 1. Признак открытия по дням
	query, args, err := psqlbuilder.Select("day_of_week", "is_open").
		From(hoursTable).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return week, fmt.Errorf("%w: GetWeekly - build hours query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return week, fmt.Errorf("%w: GetWeekly - execute hours query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var day int
		var isOpen bool
		if err := rows.Scan(&day, &isOpen); err != nil {
			return week, fmt.Errorf("%w: GetWeekly - scan hours: %v", ErrScanRow, err)
		}
		if day < 0 || day >= domain.DaysPerWeek {
			return week, fmt.Errorf("%w: %d", ErrInvalidDay, day)
		}
		week[day].IsOpen = isOpen
	}
	if err := rows.Err(); err != nil {
		return week, fmt.Errorf("%w: GetWeekly - hours rows error: %v", ErrScanRow, err)
	}

	// 2. Окна
	query, args, err = psqlbuilder.Select("day_of_week", "start_minute", "end_minute").
		From(windowsTable).
		OrderBy("day_of_week ASC", "start_minute ASC").
		ToSql()
	if err != nil {
		return week, fmt.Errorf("%w: GetWeekly - build windows query: %v", ErrBuildQuery, err)
	}

	windowRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return week, fmt.Errorf("%w: GetWeekly - execute windows query: %v", ErrExecQuery, err)
	}
	defer windowRows.Close()

	for windowRows.Next() {
		var day int
		var w domain.TimeWindow
		if err := windowRows.Scan(&day, &w.Start, &w.End); err != nil {
			return week, fmt.Errorf("%w: GetWeekly - scan window: %v", ErrScanRow, err)
		}
		if day < 0 || day >= domain.DaysPerWeek {
			return week, fmt.Errorf("%w: %d", ErrInvalidDay, day)
		}
		week[day].Windows = append(week[day].Windows, w)
	}
	if err := windowRows.Err(); err != nil {
		return week, fmt.Errorf("%w: GetWeekly - windows rows error: %v", ErrScanRow, err)
	}

	return week, nil
}

// ReplaceDay заменяет расписание дня целиком: признак открытия и все окна
// Должен выполняться в транзакции, иначе читатели могут увидеть день без окон
func (r *Repository) ReplaceDay(ctx context.Context, day domain.DayHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// 1. Обновляем признак открытия
	query, args, err := psqlbuilder.Insert(hoursTable).
		Columns("day_of_week", "is_open", "updated_at").
		Values(int(day.DayOfWeek), day.IsOpen, time.Now()).
		Suffix("ON CONFLICT (day_of_week) DO UPDATE SET is_open = EXCLUDED.is_open, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceDay - build upsert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceDay - execute upsert: %v", ErrExecQuery, err)
	}

	// 2. Удаляем старые окна
	query, args, err = psqlbuilder.Delete(windowsTable).
		Where(squirrel.Eq{"day_of_week": int(day.DayOfWeek)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceDay - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceDay - execute delete: %v", ErrExecQuery, err)
	}

	if len(day.Windows) == 0 {
		return nil
	}

	// 3. Вставляем новые окна одним запросом
	insert := psqlbuilder.Insert(windowsTable).Columns("day_of_week", "start_minute", "end_minute")
	for _, w := range day.Windows {
		insert = insert.Values(int(day.DayOfWeek), w.Start, w.End)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceDay - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceDay - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
