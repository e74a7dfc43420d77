package entities

import "time"

type Note struct {
	ID           uint64    `db:"id"`
	RequestID    uint64    `db:"request_id"`
	AuthorUserID *uint64   `db:"author_user_id"`
	Message      string    `db:"message"`
	CreatedAt    time.Time `db:"created_at"`

	AuthorName *string `db:"-"`
}
