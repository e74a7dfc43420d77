package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/entities"
	db "gearguard/internal/infrastructure/bd"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

const (
	maintenanceTable      = "maintenance_requests"
	maintenanceBaseFields = "id, type, subject, description, equipment_id, work_center_id, team_id, scheduled_date, " +
		"status, assigned_to_user_id, duration_hours, created_by_user_id, created_at, updated_at"
)

var maintenanceJoinedColumns = []string{
	"mr.id", "mr.type", "mr.subject", "mr.description", "mr.equipment_id", "mr.work_center_id", "mr.team_id",
	"mr.scheduled_date", "mr.status", "mr.assigned_to_user_id", "mr.duration_hours", "mr.created_by_user_id",
	"mr.created_at", "mr.updated_at",
	"e.name AS equipment_name", "wc.name AS work_center_name", "t.name AS team_name",
	"au.name AS assigned_to_name", "cu.name AS created_by_name",
}

type MaintenanceRequestRepositoryInterface interface {
	List(ctx context.Context, filter types.MaintenanceFilter) ([]entities.MaintenanceRequest, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	// LockByID читает заявку с блокировкой строки до конца транзакции.
	LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	Create(ctx context.Context, tx pgx.Tx, req entities.MaintenanceRequest) (uint64, error)
	UpdateAssignee(ctx context.Context, tx pgx.Tx, id uint64, userID uint64) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string, durationHours *float64) error
	ListForCalendar(ctx context.Context, rng types.CalendarRange) ([]entities.CalendarEntry, error)
	ListStatusRows(ctx context.Context) ([]entities.RequestStatusRow, error)
}

type maintenanceRequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceRequestRepositoryInterface {
	return &maintenanceRequestRepository{storage: storage, logger: logger}
}

func (r *maintenanceRequestRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *maintenanceRequestRepository) joinedSelect() sq.SelectBuilder {
	return psql.Select(maintenanceJoinedColumns...).
		From(maintenanceTable + " mr").
		LeftJoin("equipment e ON e.id = mr.equipment_id").
		LeftJoin("work_centers wc ON wc.id = mr.work_center_id").
		LeftJoin("teams t ON t.id = mr.team_id").
		LeftJoin("users au ON au.id = mr.assigned_to_user_id").
		LeftJoin("users cu ON cu.id = mr.created_by_user_id")
}

func baseRequestDest(m *entities.MaintenanceRequest) []interface{} {
	return []interface{}{
		&m.ID, &m.Type, &m.Subject, &m.Description, &m.EquipmentID, &m.WorkCenterID, &m.TeamID,
		&m.ScheduledDate, &m.Status, &m.AssignedToUserID, &m.DurationHours, &m.CreatedByUserID,
		&m.CreatedAt, &m.UpdatedAt,
	}
}

func scanJoinedRequest(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var m entities.MaintenanceRequest
	dest := append(baseRequestDest(&m),
		&m.EquipmentName, &m.WorkCenterName, &m.TeamName, &m.AssignedToName, &m.CreatedByName,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, translateError("ошибка сканирования maintenance_requests", err)
	}
	return &m, nil
}

func (r *maintenanceRequestRepository) List(ctx context.Context, filter types.MaintenanceFilter) ([]entities.MaintenanceRequest, error) {
	builder := db.ApplyEq(r.joinedSelect(), map[string]interface{}{
		"mr.equipment_id":        filter.EquipmentID,
		"mr.work_center_id":      filter.WorkCenterID,
		"mr.assigned_to_user_id": filter.AssignedToUserID,
		"mr.status":              filter.Status,
		"mr.type":                filter.Type,
	})

	query, args, err := builder.OrderBy("mr.created_at DESC", "mr.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для списка заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки заявок", err)
	}
	defer rows.Close()

	items := make([]entities.MaintenanceRequest, 0)
	for rows.Next() {
		m, err := scanJoinedRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

func (r *maintenanceRequestRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query, args, err := r.joinedSelect().Where(sq.Eq{"mr.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID заявки: %w", err)
	}
	return scanJoinedRequest(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

// LockByID не делает JOIN: FOR UPDATE нельзя применить к nullable-стороне внешнего соединения.
func (r *maintenanceRequestRepository) LockByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	if tx == nil {
		return nil, fmt.Errorf("LockByID требует транзакцию")
	}
	query, args, err := psql.Select(maintenanceBaseFields).
		From(maintenanceTable).
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL LockByID: %w", err)
	}

	var m entities.MaintenanceRequest
	if err := tx.QueryRow(ctx, query, args...).Scan(baseRequestDest(&m)...); err != nil {
		return nil, translateError("ошибка блокировки заявки", err)
	}
	return &m, nil
}

func (r *maintenanceRequestRepository) Create(ctx context.Context, tx pgx.Tx, req entities.MaintenanceRequest) (uint64, error) {
	query, args, err := psql.Insert(maintenanceTable).
		Columns(
			"type", "subject", "description", "equipment_id", "work_center_id", "team_id",
			"scheduled_date", "status", "created_by_user_id",
		).
		Values(
			req.Type, req.Subject, req.Description, req.EquipmentID, req.WorkCenterID, req.TeamID,
			req.ScheduledDate, req.Status, req.CreatedByUserID,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create заявки: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, translateError("ошибка создания заявки", err)
	}
	return newID, nil
}

func (r *maintenanceRequestRepository) UpdateAssignee(ctx context.Context, tx pgx.Tx, id uint64, userID uint64) error {
	return r.update(ctx, tx, id, map[string]interface{}{"assigned_to_user_id": userID})
}

func (r *maintenanceRequestRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string, durationHours *float64) error {
	set := map[string]interface{}{"status": status}
	if durationHours != nil {
		set["duration_hours"] = *durationHours
	}
	return r.update(ctx, tx, id, set)
}

func (r *maintenanceRequestRepository) update(ctx context.Context, tx pgx.Tx, id uint64, set map[string]interface{}) error {
	set["updated_at"] = sq.Expr("NOW()")
	query, args, err := psql.Update(maintenanceTable).SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update заявки: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return translateError("ошибка обновления заявки", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *maintenanceRequestRepository) ListForCalendar(ctx context.Context, rng types.CalendarRange) ([]entities.CalendarEntry, error) {
	builder := psql.Select("mr.id", "mr.subject", "mr.type", "mr.status", "e.name", "wc.name", "mr.scheduled_date").
		From(maintenanceTable + " mr").
		LeftJoin("equipment e ON e.id = mr.equipment_id").
		LeftJoin("work_centers wc ON wc.id = mr.work_center_id").
		Where(sq.NotEq{"mr.scheduled_date": nil})
	if !rng.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"mr.scheduled_date": rng.From})
	}
	if !rng.To.IsZero() {
		builder = builder.Where(sq.Lt{"mr.scheduled_date": rng.To})
	}

	query, args, err := builder.OrderBy("mr.scheduled_date ASC", "mr.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL календаря: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки календаря", err)
	}
	defer rows.Close()

	items := make([]entities.CalendarEntry, 0)
	for rows.Next() {
		var c entities.CalendarEntry
		if err := rows.Scan(&c.ID, &c.Subject, &c.Type, &c.Status, &c.EquipmentName, &c.WorkCenterName, &c.ScheduledDate); err != nil {
			return nil, fmt.Errorf("ошибка сканирования календаря: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListStatusRows - минимальные данные для агрегатов дашборда, без JOIN.
func (r *maintenanceRequestRepository) ListStatusRows(ctx context.Context) ([]entities.RequestStatusRow, error) {
	query, args, err := psql.Select("id", "status", "equipment_id", "assigned_to_user_id").From(maintenanceTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для дашборда: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки для дашборда", err)
	}
	defer rows.Close()

	items := make([]entities.RequestStatusRow, 0)
	for rows.Next() {
		var s entities.RequestStatusRow
		if err := rows.Scan(&s.ID, &s.Status, &s.EquipmentID, &s.AssignedToUserID); err != nil {
			return nil, fmt.Errorf("ошибка сканирования для дашборда: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
