package vacation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	tableName = "vacation_period"
	// singletonID единственная строка таблицы: активный отпуск всегда один
	singletonID = 1
)

// Repository репозиторий отпуска
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отпуска
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает активный отпуск или nil, если он не задан
func (r *Repository) Get(ctx context.Context) (*domain.VacationPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_date", "end_date").
		From(tableName).
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var period domain.VacationPeriod
	err = executor.QueryRowContext(ctx, query, args...).Scan(&period.StartDate, &period.EndDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan vacation: %v", ErrScanRow, err)
	}

	return &period, nil
}

// Set устанавливает отпуск, заменяя предыдущий
func (r *Repository) Set(ctx context.Context, period domain.VacationPeriod) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("id", "start_date", "end_date", "updated_at").
		Values(singletonID, period.StartDate.Format(domain.DateFormat), period.EndDate.Format(domain.DateFormat), time.Now()).
		Suffix("ON CONFLICT (id) DO UPDATE SET start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Set - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Set - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// Clear удаляет отпуск. Отсутствие отпуска не считается ошибкой
func (r *Repository) Clear(ctx context.Context) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Clear - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Clear - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}
