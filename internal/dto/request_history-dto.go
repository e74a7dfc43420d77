package dto

type RequestHistoryDTO struct {
	ID        uint64  `json:"id"`
	EventType string  `json:"event_type"`
	OldValue  *string `json:"old_value"`
	NewValue  *string `json:"new_value"`
	UserID    *uint64 `json:"user_id"`
	UserName  *string `json:"user_name"`
	CreatedAt string  `json:"created_at"`
}
