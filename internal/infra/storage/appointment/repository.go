package appointment

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

const tableName = "appointments"

var columns = []string{
	"id",
	"staff_id",
	"service_id",
	"start_at",
	"end_at",
	"duration_minutes",
	"status",
	"client_name",
	"client_phone",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция, использует её.
// Пересечение с другой записью мастера отклоняется ограничением БД и возвращается как ErrSlotNotAvailable
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"staff_id",
			"service_id",
			"start_at",
			"end_at",
			"duration_minutes",
			"status",
			"client_name",
			"client_phone",
			"notes",
		).
		Values(
			appt.StaffID,
			appt.ServiceID,
			appt.StartAt,
			appt.EffectiveEnd(),
			appt.DurationMinutes,
			appt.Status,
			appt.ClientName,
			appt.ClientPhone,
			appt.Notes,
		).
		Suffix("RETURNING id, end_at, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var endAt time.Time
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&endAt,
		&createdAt,
		&updatedAt,
	)

	if isExclusionViolation(err) {
		return nil, ErrSlotNotAvailable
	}
	if err != nil {
		return nil, wrapQueryError(ErrExecQuery, "Create", "execute insert", err)
	}

	appt.EndAt = &endAt
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, wrapQueryError(ErrScanRow, "GetByID", "scan appointment", err)
	}

	return appt, nil
}

// ListByFilter получает записи, пересекающиеся с периодом [filter.From, filter.To)
// Если указан мастер и есть активная транзакция, строки блокируются (FOR UPDATE),
// чтобы параллельная запись к тому же мастеру дождалась завершения проверки
func (r *Repository) ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Lt{"start_at": filter.To}).
		Where(squirrel.Gt{"end_at": filter.From})

	// Фильтрация по мастеру (если указан)
	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}

	// Отмененные записи не занимают время
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	selectBuilder = selectBuilder.OrderBy("start_at ASC", "id ASC")

	if dbmetrics.CanLockRows(ctx) && filter.StaffID != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError(ErrExecQuery, "ListByFilter", "execute query", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Reschedule переносит запись на новое время и выставляет статус
func (r *Repository) Reschedule(ctx context.Context, id int64, startAt, endAt time.Time, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("start_at", startAt).
		Set("end_at", endAt).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if isExclusionViolation(err) {
		return ErrSlotNotAvailable
	}
	if err != nil {
		return wrapQueryError(ErrExecQuery, "Reschedule", "execute update", err)
	}

	return checkAffected(result, "Reschedule")
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapQueryError(ErrExecQuery, "UpdateStatus", "execute update", err)
	}

	return checkAffected(result, "UpdateStatus")
}

// Cancel отменяет запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapQueryError(ErrExecQuery, "Cancel", "execute update", err)
	}

	return checkAffected(result, "Cancel")
}

func checkAffected(result sql.Result, method string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку в запись
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var endAt time.Time
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.StaffID,
		&appt.ServiceID,
		&appt.StartAt,
		&endAt,
		&appt.DurationMinutes,
		&appt.Status,
		&appt.ClientName,
		&appt.ClientPhone,
		&appt.Notes,
		&appt.CancellationReason,
		&appt.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.EndAt = &endAt
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, wrapQueryError(ErrScanRow, "scanAppointments", "scan row", err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(ErrScanRow, "scanAppointments", "rows error", err)
	}

	return appointments, nil
}
