package repositories

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

const (
	teamTable       = "teams"
	teamMemberTable = "team_members"
)

type TeamRepositoryInterface interface {
	List(ctx context.Context) ([]entities.Team, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Team, error)
	ListMembers(ctx context.Context, teamID uint64) ([]entities.TeamMember, error)
	ExistsByName(ctx context.Context, tx pgx.Tx, name string, excludeID uint64) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, name string) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, name string) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	IsReferencedByEquipment(ctx context.Context, tx pgx.Tx, id uint64) (bool, error)

	IsMember(ctx context.Context, tx pgx.Tx, teamID, userID uint64) (bool, error)
	AddMember(ctx context.Context, tx pgx.Tx, teamID, userID uint64) error
	RemoveMember(ctx context.Context, tx pgx.Tx, teamID, userID uint64) error
}

type teamRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTeamRepository(storage *pgxpool.Pool, logger *zap.Logger) TeamRepositoryInterface {
	return &teamRepository{storage: storage, logger: logger}
}

func (r *teamRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *teamRepository) List(ctx context.Context) ([]entities.Team, error) {
	query, args, err := psql.Select(
		"t.id", "t.name", "t.created_at", "t.updated_at",
		"(SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.id) AS member_count",
	).
		From(teamTable + " t").
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для списка команд: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки teams", err)
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	for rows.Next() {
		var t entities.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt, &t.MemberCount); err != nil {
			return nil, fmt.Errorf("ошибка сканирования teams: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *teamRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Team, error) {
	query, args, err := psql.Select("id", "name", "created_at", "updated_at").
		From(teamTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID teams: %w", err)
	}

	var t entities.Team
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, translateError("ошибка поиска команды", err)
	}
	return &t, nil
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID uint64) ([]entities.TeamMember, error) {
	query, args, err := psql.Select("u.id", "u.name", "u.email", "u.role", "tm.created_at").
		From(teamMemberTable+" tm").
		Join("users u ON u.id = tm.user_id").
		Where(sq.Eq{"tm.team_id": teamID}).
		OrderBy("u.name ASC", "u.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListMembers: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки участников команды", err)
	}
	defer rows.Close()

	members := make([]entities.TeamMember, 0)
	for rows.Next() {
		var m entities.TeamMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования участника: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ExistsByName - excludeID исключает саму команду при переименовании.
func (r *teamRepository) ExistsByName(ctx context.Context, tx pgx.Tx, name string, excludeID uint64) (bool, error) {
	builder := psql.Select("1").From(teamTable).Where(sq.Eq{"name": strings.TrimSpace(name)})
	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	return exists(ctx, r.getQuerier(tx), builder)
}

func (r *teamRepository) Create(ctx context.Context, tx pgx.Tx, name string) (uint64, error) {
	query, args, err := psql.Insert(teamTable).
		Columns("name").
		Values(strings.TrimSpace(name)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create teams: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, translateError("ошибка создания команды", err)
	}
	return newID, nil
}

func (r *teamRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, name string) error {
	query, args, err := psql.Update(teamTable).
		Set("name", strings.TrimSpace(name)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update teams: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return translateError("ошибка обновления команды", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(teamTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete teams: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return translateError("ошибка удаления команды", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *teamRepository) IsReferencedByEquipment(ctx context.Context, tx pgx.Tx, id uint64) (bool, error) {
	return exists(ctx, r.getQuerier(tx), psql.Select("1").From(equipmentTable).Where(sq.Eq{"maintenance_team_id": id}))
}

func (r *teamRepository) IsMember(ctx context.Context, tx pgx.Tx, teamID, userID uint64) (bool, error) {
	return exists(ctx, r.getQuerier(tx), psql.Select("1").From(teamMemberTable).Where(sq.Eq{"team_id": teamID, "user_id": userID}))
}

func (r *teamRepository) AddMember(ctx context.Context, tx pgx.Tx, teamID, userID uint64) error {
	query, args, err := psql.Insert(teamMemberTable).
		Columns("team_id", "user_id").
		Values(teamID, userID).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса AddMember: %w", err)
	}
	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		return translateError("ошибка добавления участника", err)
	}
	return nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, tx pgx.Tx, teamID, userID uint64) error {
	query, args, err := psql.Delete(teamMemberTable).
		Where(sq.Eq{"team_id": teamID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса RemoveMember: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return translateError("ошибка удаления участника", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
