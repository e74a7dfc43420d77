package repositories

import (
	"context"
	"errors"
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
	userTable  = "users"
	userFields = "id, name, email, password, role, avatar_url, created_at, updated_at"
)

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error)
	FindRole(ctx context.Context, id uint64) (string, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Create(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error)
	UpdatePassword(ctx context.Context, tx pgx.Tx, userID uint64, passwordHash string) error
	UpdateRole(ctx context.Context, tx pgx.Tx, userID uint64, role string) error
	ListAll(ctx context.Context) ([]entities.User, error)
	ListAvailableForTeam(ctx context.Context, teamID uint64, roles []string) ([]entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func (r *UserRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role,
		&user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, translateError("ошибка сканирования users", err)
	}
	return &user, nil
}

func (r *UserRepository) findOne(ctx context.Context, q Querier, where sq.Sqlizer) (*entities.User, error) {
	query, args, err := psql.Select(userFields).From(userTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для users: %w", err)
	}
	user, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"id": id})
}

// FindRole читает только роль. Вызывается на каждый авторизованный запрос.
func (r *UserRepository) FindRole(ctx context.Context, id uint64) (string, error) {
	query, args, err := psql.Select("role").From(userTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return "", fmt.Errorf("ошибка сборки SQL FindRole: %w", err)
	}
	var role string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrUserNotFound
		}
		return "", translateError("ошибка чтения роли пользователя", err)
	}
	return role, nil
}

// FindByEmail - email сравнивается без учёта регистра.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, r.storage, sq.Expr("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))))
}

func (r *UserRepository) Create(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error) {
	query, args, err := psql.Insert(userTable).
		Columns("name", "email", "password", "role", "avatar_url").
		Values(user.Name, strings.ToLower(user.Email), user.Password, user.Role, user.AvatarURL).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create users: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, translateError("ошибка создания users", err)
	}
	return newID, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, tx pgx.Tx, userID uint64, passwordHash string) error {
	return r.updateColumn(ctx, tx, userID, "password", passwordHash)
}

func (r *UserRepository) UpdateRole(ctx context.Context, tx pgx.Tx, userID uint64, role string) error {
	return r.updateColumn(ctx, tx, userID, "role", role)
}

func (r *UserRepository) updateColumn(ctx context.Context, tx pgx.Tx, userID uint64, column string, value interface{}) error {
	query, args, err := psql.Update(userTable).
		Set(column, value).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update users: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return translateError("ошибка обновления users", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]entities.User, error) {
	query, args, err := psql.Select(userFields).From(userTable).OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListAll users: %w", err)
	}
	return r.queryUsers(ctx, query, args)
}

// ListAvailableForTeam - пользователи нужных ролей, ещё не состоящие в команде.
func (r *UserRepository) ListAvailableForTeam(ctx context.Context, teamID uint64, roles []string) ([]entities.User, error) {
	query, args, err := psql.Select(userFields).
		From(userTable+" u").
		Where(sq.Eq{"u.role": roles}).
		Where(sq.Expr("NOT EXISTS (SELECT 1 FROM team_members tm WHERE tm.team_id = ? AND tm.user_id = u.id)", teamID)).
		OrderBy("u.name ASC", "u.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListAvailableForTeam: %w", err)
	}
	return r.queryUsers(ctx, query, args)
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args []interface{}) ([]entities.User, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки users", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}
