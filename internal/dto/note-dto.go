package dto

type CreateNoteDTO struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type NoteDTO struct {
	ID           uint64  `json:"id"`
	RequestID    uint64  `json:"request_id"`
	AuthorUserID *uint64 `json:"author_user_id"`
	AuthorName   *string `json:"author_name"`
	Message      string  `json:"message"`
	CreatedAt    string  `json:"created_at"`
}
