package seeders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/pkg/config"
	"gearguard/pkg/constants"
	"gearguard/pkg/utils"
)

func seedAdmin(ctx context.Context, db *pgxpool.Pool, cfg config.SeedConfig) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return false, errors.New("ADMIN_EMAIL и ADMIN_PASSWORD должны быть заданы")
	}

	var userID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE LOWER(email) = $1", email).Scan(&userID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}

	hashedPassword, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (name, email, password, role) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
		cfg.AdminName, email, hashedPassword, constants.RoleAdmin,
	)
	if err != nil {
		return false, fmt.Errorf("не удалось вставить администратора: %w", err)
	}
	return true, nil
}
