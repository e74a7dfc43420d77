package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/migrations"
	"gearguard/pkg/config"
)

// Migrate применяет схему.
func Migrate(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("▶️  Применение миграций...")
	if err := migrations.Up(ctx, db, logger); err != nil {
		return err
	}
	logger.Info("✅ Миграции применены")
	return nil
}

// SeedAdmin создаёт учётную запись администратора из конфига, если её ещё нет.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("▶️  Создание администратора...")
	created, err := seedAdmin(ctx, db, cfg.Seed)
	if err != nil {
		return fmt.Errorf("ошибка создания администратора: %w", err)
	}
	if created {
		logger.Info("✅ Администратор создан", zap.String("email", cfg.Seed.AdminEmail))
	} else {
		logger.Info("Администратор уже существует. Пропускаем.", zap.String("email", cfg.Seed.AdminEmail))
	}
	return nil
}

// SeedDemo наполняет команды, техников, оборудование и рабочие центры. Повторный запуск ничего не дублирует.
func SeedDemo(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("▶️  Наполнение демо-данными...")
	stats, err := seedDemo(ctx, db)
	if err != nil {
		return fmt.Errorf("ошибка наполнения демо-данными: %w", err)
	}
	logger.Info("✅ Демо-данные готовы",
		zap.Int("teams", stats.Teams),
		zap.Int("technicians", stats.Technicians),
		zap.Int("equipment", stats.Equipment),
		zap.Int("work_centers", stats.WorkCenters),
	)
	return nil
}
