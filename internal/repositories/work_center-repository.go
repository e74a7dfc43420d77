package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

const (
	workCenterTable            = "work_centers"
	workCenterAlternativeTable = "work_center_alternatives"
	workCenterFields           = "id, name, code, tag, cost_per_hour, capacity_per_hour, time_efficiency_pct, oee_target_pct, status, created_at, updated_at"
)

var workCenterUpdatableColumns = map[string]bool{
	"name": true, "code": true, "tag": true, "cost_per_hour": true, "capacity_per_hour": true,
	"time_efficiency_pct": true, "oee_target_pct": true, "status": true,
}

type WorkCenterRepositoryInterface interface {
	List(ctx context.Context) ([]entities.WorkCenter, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkCenter, error)
	ExistsByCode(ctx context.Context, tx pgx.Tx, code string, excludeID uint64) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, wc entities.WorkCenter) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, columns map[string]interface{}) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	IsReferencedByRequests(ctx context.Context, tx pgx.Tx, id uint64) (bool, error)

	ListAlternatives(ctx context.Context, id uint64) ([]entities.WorkCenterAlternative, error)
	AlternativeExists(ctx context.Context, tx pgx.Tx, id, alternativeID uint64) (bool, error)
	AddAlternative(ctx context.Context, tx pgx.Tx, id, alternativeID uint64) error
}

type workCenterRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkCenterRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkCenterRepositoryInterface {
	return &workCenterRepository{storage: storage, logger: logger}
}

func (r *workCenterRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanWorkCenter(row pgx.Row) (*entities.WorkCenter, error) {
	var wc entities.WorkCenter
	err := row.Scan(
		&wc.ID, &wc.Name, &wc.Code, &wc.Tag, &wc.CostPerHour, &wc.CapacityPerHour,
		&wc.TimeEfficiencyPct, &wc.OEETargetPct, &wc.Status, &wc.CreatedAt, &wc.UpdatedAt,
	)
	if err != nil {
		return nil, translateError("ошибка сканирования work_centers", err)
	}
	return &wc, nil
}

func (r *workCenterRepository) List(ctx context.Context) ([]entities.WorkCenter, error) {
	query, args, err := psql.Select(workCenterFields).From(workCenterTable).OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для списка рабочих центров: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки work_centers", err)
	}
	defer rows.Close()

	items := make([]entities.WorkCenter, 0)
	for rows.Next() {
		wc, err := scanWorkCenter(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *wc)
	}
	return items, rows.Err()
}

func (r *workCenterRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkCenter, error) {
	query, args, err := psql.Select(workCenterFields).From(workCenterTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID work_centers: %w", err)
	}
	return scanWorkCenter(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *workCenterRepository) ExistsByCode(ctx context.Context, tx pgx.Tx, code string, excludeID uint64) (bool, error) {
	builder := psql.Select("1").From(workCenterTable).Where(sq.Eq{"code": code})
	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	return exists(ctx, r.getQuerier(tx), builder)
}

func (r *workCenterRepository) Create(ctx context.Context, tx pgx.Tx, wc entities.WorkCenter) (uint64, error) {
	query, args, err := psql.Insert(workCenterTable).
		Columns("name", "code", "tag", "cost_per_hour", "capacity_per_hour", "time_efficiency_pct", "oee_target_pct", "status").
		Values(wc.Name, wc.Code, wc.Tag, wc.CostPerHour, wc.CapacityPerHour, wc.TimeEfficiencyPct, wc.OEETargetPct, wc.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create work_centers: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, translateError("ошибка создания рабочего центра", err)
	}
	return newID, nil
}

func (r *workCenterRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, columns map[string]interface{}) error {
	set := make(map[string]interface{}, len(columns)+1)
	for col, val := range columns {
		if !workCenterUpdatableColumns[col] {
			return fmt.Errorf("колонка %q не обновляется: %w", col, apperrors.ErrBadRequest)
		}
		set[col] = val
	}
	set["updated_at"] = sq.Expr("NOW()")

	query, args, err := psql.Update(workCenterTable).SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update work_centers: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return translateError("ошибка обновления рабочего центра", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *workCenterRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(workCenterTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete work_centers: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return translateError("ошибка удаления рабочего центра", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *workCenterRepository) IsReferencedByRequests(ctx context.Context, tx pgx.Tx, id uint64) (bool, error) {
	return exists(ctx, r.getQuerier(tx), psql.Select("1").From(maintenanceTable).Where(sq.Eq{"work_center_id": id}))
}

func (r *workCenterRepository) ListAlternatives(ctx context.Context, id uint64) ([]entities.WorkCenterAlternative, error) {
	query, args, err := psql.Select("a.work_center_id", "w.id", "w.name", "w.code", "w.status").
		From(workCenterAlternativeTable + " a").
		Join("work_centers w ON w.id = a.alternative_work_center_id").
		Where(sq.Eq{"a.work_center_id": id}).
		OrderBy("w.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListAlternatives: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки альтернатив", err)
	}
	defer rows.Close()

	items := make([]entities.WorkCenterAlternative, 0)
	for rows.Next() {
		var a entities.WorkCenterAlternative
		if err := rows.Scan(&a.WorkCenterID, &a.ID, &a.Name, &a.Code, &a.Status); err != nil {
			return nil, fmt.Errorf("ошибка сканирования альтернативы: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *workCenterRepository) AlternativeExists(ctx context.Context, tx pgx.Tx, id, alternativeID uint64) (bool, error) {
	return exists(ctx, r.getQuerier(tx), psql.Select("1").
		From(workCenterAlternativeTable).
		Where(sq.Eq{"work_center_id": id, "alternative_work_center_id": alternativeID}))
}

func (r *workCenterRepository) AddAlternative(ctx context.Context, tx pgx.Tx, id, alternativeID uint64) error {
	query, args, err := psql.Insert(workCenterAlternativeTable).
		Columns("work_center_id", "alternative_work_center_id").
		Values(id, alternativeID).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса AddAlternative: %w", err)
	}
	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		return translateError("ошибка добавления альтернативы", err)
	}
	return nil
}
