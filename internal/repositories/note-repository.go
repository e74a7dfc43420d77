package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/entities"
)

const noteTable = "notes"

type NoteRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, note entities.Note) (*entities.Note, error)
	ListByRequest(ctx context.Context, requestID uint64) ([]entities.Note, error)
}

type noteRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNoteRepository(storage *pgxpool.Pool, logger *zap.Logger) NoteRepositoryInterface {
	return &noteRepository{storage: storage, logger: logger}
}

func (r *noteRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *noteRepository) Create(ctx context.Context, tx pgx.Tx, note entities.Note) (*entities.Note, error) {
	query, args, err := psql.Insert(noteTable).
		Columns("request_id", "author_user_id", "message").
		Values(note.RequestID, note.AuthorUserID, note.Message).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса Create notes: %w", err)
	}

	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&note.ID, &note.CreatedAt); err != nil {
		return nil, translateError("ошибка создания заметки", err)
	}
	return &note, nil
}

func (r *noteRepository) ListByRequest(ctx context.Context, requestID uint64) ([]entities.Note, error) {
	query, args, err := psql.Select("n.id", "n.request_id", "n.author_user_id", "n.message", "n.created_at", "u.name").
		From(noteTable+" n").
		LeftJoin("users u ON u.id = n.author_user_id").
		Where(sq.Eq{"n.request_id": requestID}).
		OrderBy("n.created_at ASC", "n.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListByRequest notes: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("ошибка выборки заметок", err)
	}
	defer rows.Close()

	notes := make([]entities.Note, 0)
	for rows.Next() {
		var n entities.Note
		if err := rows.Scan(&n.ID, &n.RequestID, &n.AuthorUserID, &n.Message, &n.CreatedAt, &n.AuthorName); err != nil {
			return nil, fmt.Errorf("ошибка сканирования заметки: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
