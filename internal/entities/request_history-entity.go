package entities

import "time"

// RequestHistory - запись журнала жизненного цикла заявки. Только добавление.
type RequestHistory struct {
	ID        uint64    `db:"id"`
	RequestID uint64    `db:"request_id"`
	UserID    *uint64   `db:"user_id"`
	EventType string    `db:"event_type"`
	OldValue  *string   `db:"old_value"`
	NewValue  *string   `db:"new_value"`
	CreatedAt time.Time `db:"created_at"`

	UserName *string `db:"-"`
}
