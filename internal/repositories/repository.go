package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "gearguard/pkg/errors"
)

// Коды ошибок PostgreSQL, которые переводим в доменные.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// translateError переводит ошибки драйвера в доменные, сохраняя исходную в цепочке.
// op попадает в текст ошибки для логов.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperrors.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperrors.ErrInvariantViolation)
		case pgCheckViolation, pgNumericOutOfRange:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperrors.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// constraintName достаёт имя нарушенного ограничения, если ошибка пришла из PostgreSQL.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// exists оборачивает подзапрос в SELECT EXISTS (...).
func exists(ctx context.Context, q Querier, inner sq.SelectBuilder) (bool, error) {
	query, args, err := inner.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("ошибка сборки SQL EXISTS: %w", err)
	}
	var found bool
	if err := q.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, translateError("ошибка проверки существования", err)
	}
	return found, nil
}
