package types

import "gearguard/pkg/constants"

// Principal - аутентифицированный пользователь запроса. Кладётся в контекст middleware
// и явно передаётся в сервисы жизненного цикла.
type Principal struct {
	UserID uint64
	Role   string
}

func (p Principal) IsManager() bool {
	return p.Role == constants.RoleManager || p.Role == constants.RoleAdmin
}
