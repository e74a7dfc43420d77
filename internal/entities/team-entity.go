package entities

import (
	"time"

	"gearguard/pkg/types"
)

type Team struct {
	ID   uint64 `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	types.BaseEntity

	// Вычисляемое поле (не колонка в таблице)
	MemberCount int `db:"-"`
}

// TeamMember - участник команды вместе с данными пользователя.
type TeamMember struct {
	UserID   uint64
	Name     string
	Email    string
	Role     string
	JoinedAt time.Time
}
