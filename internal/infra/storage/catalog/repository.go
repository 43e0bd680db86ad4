package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий справочников: услуги и мастера
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "duration_minutes", "active").
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.DurationMinutes,
		&service.Active,
	)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

// GetStaff получает мастера по ID
func (r *Repository) GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "active").
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	var staff domain.StaffMember
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Active,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %v", ErrScanRow, err)
	}

	return &staff, nil
}
