package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"gearguard/pkg/config"
	"gearguard/pkg/database/postgresql"
	applogger "gearguard/pkg/logger"
	"gearguard/seeders"
)

func main() {
	// --- Определяем флаги ---
	runMigrate := flag.Bool("migrate", false, "Применить миграции схемы")
	runAdmin := flag.Bool("admin", false, "Создать администратора из ADMIN_EMAIL / ADMIN_PASSWORD")
	runDemo := flag.Bool("demo", false, "Наполнить демо-командами, техниками, оборудованием и рабочими центрами")
	runAll := flag.Bool("all", false, "Запустить всё (эквивалентно -migrate -admin -demo)")
	flag.Parse()

	// Если ни один флаг не указан - показываем справку
	if !*runMigrate && !*runAdmin && !*runDemo && !*runAll {
		fmt.Println("Не выбран ни один сидер для запуска. Доступные флаги:")
		flag.PrintDefaults()
		fmt.Println("Пример: go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log).Named("seed")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()

	// Порядок важен: демо-данные и админ требуют схему
	steps := []struct {
		enabled bool
		run     func() error
	}{
		{*runAll || *runMigrate, func() error { return seeders.Migrate(ctx, dbPool, logger) }},
		{*runAll || *runAdmin, func() error { return seeders.SeedAdmin(ctx, dbPool, cfg, logger) }},
		{*runAll || *runDemo, func() error { return seeders.SeedDemo(ctx, dbPool, logger) }},
	}
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		if err := step.run(); err != nil {
			logger.Error("❌ Сидирование прервано", zap.Error(err))
			dbPool.Close()
			os.Exit(1)
		}
	}

	logger.Info("✅ Все указанные операции сидирования успешно завершены.")
}
