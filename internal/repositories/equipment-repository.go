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

const equipmentTable = "equipment"

var equipmentSelectColumns = []string{
	"e.id", "e.name", "e.serial_number", "e.category", "e.department", "e.assigned_employee_name",
	"e.purchase_date", "e.warranty_end_date", "e.location", "e.maintenance_team_id", "e.status",
	"e.created_at", "e.updated_at", "t.name AS team_name",
}

// Колонки, которые разрешено менять частичным обновлением.
var equipmentUpdatableColumns = map[string]bool{
	"name": true, "serial_number": true, "category": true, "department": true,
	"assigned_employee_name": true, "purchase_date": true, "warranty_end_date": true,
	"location": true, "maintenance_team_id": true, "status": true,
}

type EquipmentRepositoryInterface interface {
	List(ctx context.Context, filter types.EquipmentFilter) ([]entities.Equipment, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	ExistsBySerial(ctx context.Context, tx pgx.Tx, serial string, excludeID uint64) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, columns map[string]interface{}) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	IsReferencedByRequests(ctx context.Context, tx pgx.Tx, id uint64) (bool, error)
}

type equipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &equipmentRepository{storage: storage, logger: logger}
}

func (r *equipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *equipmentRepository) baseSelect() sq.SelectBuilder {
	return psql.Select(equipmentSelectColumns...).
		From(equipmentTable + " e").
		LeftJoin("teams t ON t.id = e.maintenance_team_id")
}

func scanEquipment(row pgx.Row, withOpenCount bool) (*entities.Equipment, error) {
	var e entities.Equipment
	dest := []interface{}{
		&e.ID, &e.Name, &e.SerialNumber, &e.Category, &e.Department, &e.AssignedEmployeeName,
		&e.PurchaseDate, &e.WarrantyEndDate, &e.Location, &e.MaintenanceTeamID, &e.Status,
		&e.CreatedAt, &e.UpdatedAt, &e.TeamName,
	}
	if withOpenCount {
		dest = append(dest, &e.OpenRequestCount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, translateError("ошибка сканирования equipment", err)
	}
	return &e, nil
}

func (r *equipmentRepository) List(ctx context.Context, filter types.EquipmentFilter) ([]entities.Equipment, error) {
	builder := r.baseSelect()
	builder = db.ApplyEq(builder, map[string]interface{}{
		"e.department":             filter.Department,
		"e.assigned_employee_name": filter.Employee,
		"e.status":                 filter.Status,
	})
	builder = db.ApplySearch(builder, filter.Search, "e.name", "e.serial_number", "e.location")

	query, args, err := builder.OrderBy("e.created_at DESC", "e.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для списка оборудования: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки equipment", err)
	}
	defer rows.Close()

	items := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows, false)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// FindByID дополнительно считает открытые заявки по оборудованию.
func (r *equipmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query, args, err := r.baseSelect().
		Column(`(SELECT COUNT(*) FROM maintenance_requests mr
			WHERE mr.equipment_id = e.id AND mr.status NOT IN ('repaired', 'scrap')) AS open_request_count`).
		Where(sq.Eq{"e.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID equipment: %w", err)
	}
	return scanEquipment(r.getQuerier(tx).QueryRow(ctx, query, args...), true)
}

func (r *equipmentRepository) ExistsBySerial(ctx context.Context, tx pgx.Tx, serial string, excludeID uint64) (bool, error) {
	builder := psql.Select("1").From(equipmentTable).Where(sq.Eq{"serial_number": serial})
	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	return exists(ctx, r.getQuerier(tx), builder)
}

func (r *equipmentRepository) Create(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error) {
	query, args, err := psql.Insert(equipmentTable).
		Columns(
			"name", "serial_number", "category", "department", "assigned_employee_name",
			"purchase_date", "warranty_end_date", "location", "maintenance_team_id", "status",
		).
		Values(
			e.Name, e.SerialNumber, e.Category, e.Department, e.AssignedEmployeeName,
			e.PurchaseDate, e.WarrantyEndDate, e.Location, e.MaintenanceTeamID, e.Status,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create equipment: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, translateError("ошибка создания equipment", err)
	}
	return newID, nil
}

// Update пишет только переданные колонки. Пустая карта - только updated_at.
func (r *equipmentRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, columns map[string]interface{}) error {
	set := make(map[string]interface{}, len(columns)+1)
	for col, val := range columns {
		if !equipmentUpdatableColumns[col] {
			return fmt.Errorf("колонка %q не обновляется: %w", col, apperrors.ErrBadRequest)
		}
		set[col] = val
	}
	set["updated_at"] = sq.Expr("NOW()")

	query, args, err := psql.Update(equipmentTable).SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update equipment: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return translateError("ошибка обновления equipment", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete equipment: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return translateError("ошибка удаления equipment", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *equipmentRepository) IsReferencedByRequests(ctx context.Context, tx pgx.Tx, id uint64) (bool, error) {
	return exists(ctx, r.getQuerier(tx), psql.Select("1").From(maintenanceTable).Where(sq.Eq{"equipment_id": id}))
}
