// Package migrations хранит SQL-схему и применяет её через goose.
package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed *.sql
var sqlFiles embed.FS

func newProvider(pool *pgxpool.Pool) (*goose.Provider, func() error, error) {
	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, sqlFiles)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("goose: %w", err)
	}
	return provider, db.Close, nil
}

// Up применяет все неприменённые миграции.
func Up(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	provider, closeDB, err := newProvider(pool)
	if err != nil {
		return err
	}
	defer closeDB()

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}
	for _, r := range results {
		logger.Info("Миграция применена",
			zap.String("source", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}
	return nil
}

// Reset откатывает все миграции. Используется интеграционными тестами.
func Reset(ctx context.Context, pool *pgxpool.Pool) error {
	provider, closeDB, err := newProvider(pool)
	if err != nil {
		return err
	}
	defer closeDB()

	if _, err := provider.DownTo(ctx, 0); err != nil {
		return fmt.Errorf("ошибка отката миграций: %w", err)
	}
	return nil
}
