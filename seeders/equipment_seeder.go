package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/pkg/utils"
)

const demoPassword = "Demo#12345"

type demoStats struct {
	Teams       int
	Technicians int
	Equipment   int
	WorkCenters int
}

func seedDemo(ctx context.Context, db *pgxpool.Pool) (demoStats, error) {
	var stats demoStats

	tx, err := db.Begin(ctx)
	if err != nil {
		return stats, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	teamIDs := make(map[string]uint64, len(demoTeams))
	for _, name := range demoTeams {
		id, inserted, err := upsertReturningID(ctx, tx,
			`INSERT INTO teams (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`,
			`SELECT id FROM teams WHERE name = $1`, []interface{}{name}, name)
		if err != nil {
			return stats, fmt.Errorf("команда '%s': %w", name, err)
		}
		teamIDs[name] = id
		if inserted {
			stats.Teams++
		}
	}

	hashed, err := utils.HashPassword(demoPassword)
	if err != nil {
		return stats, err
	}
	for _, t := range demoTechnicians {
		userID, inserted, err := upsertReturningID(ctx, tx,
			`INSERT INTO users (name, email, password, role) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING RETURNING id`,
			`SELECT id FROM users WHERE LOWER(email) = LOWER($1)`, []interface{}{t.Email},
			t.Name, t.Email, hashed, t.Role)
		if err != nil {
			return stats, fmt.Errorf("пользователь '%s': %w", t.Email, err)
		}
		if inserted {
			stats.Technicians++
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			teamIDs[t.Team], userID); err != nil {
			return stats, fmt.Errorf("участник '%s': %w", t.Email, err)
		}
	}

	for _, e := range demoEquipmentList {
		tag, err := tx.Exec(ctx,
			`INSERT INTO equipment (name, serial_number, category, department, assigned_employee_name, location, maintenance_team_id)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
			 ON CONFLICT (serial_number) DO NOTHING`,
			e.Name, e.SerialNumber, e.Category, e.Department, e.Employee, e.Location, teamIDs[e.Team])
		if err != nil {
			return stats, fmt.Errorf("оборудование '%s': %w", e.SerialNumber, err)
		}
		stats.Equipment += int(tag.RowsAffected())
	}

	for _, wc := range demoWorkCenters {
		tag, err := tx.Exec(ctx,
			`INSERT INTO work_centers (name, code, cost_per_hour, capacity_per_hour, time_efficiency_pct, oee_target_pct)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT DO NOTHING`,
			wc.Name, wc.Code, wc.CostPerHour, wc.CapacityPerHour, wc.TimeEfficiencyPct, wc.OEETargetPct)
		if err != nil {
			return stats, fmt.Errorf("рабочий центр '%s': %w", wc.Code, err)
		}
		stats.WorkCenters += int(tag.RowsAffected())
	}

	return stats, tx.Commit(ctx)
}

// upsertReturningID вставляет строку или, если она уже есть, находит её id.
func upsertReturningID(ctx context.Context, tx pgx.Tx, insertSQL, selectSQL string, selectArgs []interface{}, args ...interface{}) (uint64, bool, error) {
	var id uint64
	err := tx.QueryRow(ctx, insertSQL, args...).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}
	if err := tx.QueryRow(ctx, selectSQL, selectArgs...).Scan(&id); err != nil {
		return 0, false, err
	}
	return id, false, nil
}
