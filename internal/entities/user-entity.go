package entities

import (
	"gearguard/pkg/types"
)

type User struct {
	ID        uint64  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Email     string  `json:"email" db:"email"`
	Password  string  `json:"-" db:"password"`
	Role      string  `json:"role" db:"role"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"avatar_url"`

	types.BaseEntity
}
