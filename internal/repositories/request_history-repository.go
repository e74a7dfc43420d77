package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/entities"
)

type RequestHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, history entities.RequestHistory) error
	FindByRequestID(ctx context.Context, requestID uint64) ([]entities.RequestHistory, error)
}

type RequestHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewRequestHistoryRepository(storage *pgxpool.Pool) RequestHistoryRepositoryInterface {
	return &RequestHistoryRepository{storage: storage}
}

func (r *RequestHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, history entities.RequestHistory) error {
	query := `
		INSERT INTO maintenance_request_history (request_id, user_id, event_type, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, query,
		history.RequestID, history.UserID, history.EventType, history.OldValue, history.NewValue,
	); err != nil {
		return translateError("ошибка записи истории заявки", err)
	}
	return nil
}

// FindByRequestID - история в порядке появления.
func (r *RequestHistoryRepository) FindByRequestID(ctx context.Context, requestID uint64) ([]entities.RequestHistory, error) {
	query := `
		SELECT
			h.id, h.request_id, h.user_id, h.event_type, h.old_value, h.new_value, h.created_at,
			u.name AS user_name
		FROM maintenance_request_history h
		LEFT JOIN users u ON u.id = h.user_id
		WHERE h.request_id = $1
		ORDER BY h.created_at ASC, h.id ASC`

	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, translateError("ошибка выборки истории заявки", err)
	}
	defer rows.Close()

	items := make([]entities.RequestHistory, 0)
	for rows.Next() {
		var h entities.RequestHistory
		if err := rows.Scan(&h.ID, &h.RequestID, &h.UserID, &h.EventType, &h.OldValue, &h.NewValue, &h.CreatedAt, &h.UserName); err != nil {
			return nil, fmt.Errorf("ошибка сканирования истории: %w", err)
		}
		items = append(items, h)
	}
	return items, rows.Err()
}
