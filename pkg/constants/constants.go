// pkg/constants/constants.go
package constants

//============== РОЛИ ПОЛЬЗОВАТЕЛЕЙ ==============

const (
	RoleUser       = "user"
	RoleTechnician = "technician"
	RoleManager    = "manager"
	RoleAdmin      = "admin"
)

var Roles = []string{RoleUser, RoleTechnician, RoleManager, RoleAdmin}

// AssignableRoles - роли, из которых набираются участники команд обслуживания.
var AssignableRoles = []string{RoleTechnician, RoleManager}

//============== СТАТУСЫ ОБОРУДОВАНИЯ И РАБОЧИХ ЦЕНТРОВ ==============

const (
	EquipmentStatusActive           = "active"
	EquipmentStatusInactive         = "inactive"
	EquipmentStatusUnderMaintenance = "under_maintenance"
	EquipmentStatusScrapped         = "scrapped"
)

var EquipmentStatuses = []string{
	EquipmentStatusActive,
	EquipmentStatusInactive,
	EquipmentStatusUnderMaintenance,
	EquipmentStatusScrapped,
}

const (
	WorkCenterStatusActive   = "active"
	WorkCenterStatusInactive = "inactive"
)

//============== CACHE KEYS ==============

// Префиксы для ключей в Redis.
const (
	// Формат: login_attempts:<userID> -> счётчик неудачных входов
	CacheKeyLoginAttempts = "login_attempts:%d"

	// Формат: lockout:<userID> -> "locked"
	CacheKeyLockout = "lockout:%d"

	// Формат: reset_email:<token> -> userID
	CacheKeyResetEmail = "reset_email:%s"

	// Формат: reset_attempts:<email> -> счётчик запросов сброса
	CacheKeyResetAttempts = "reset_attempts:%s"

	// Формат: revoked_refresh:<jti> -> "1"
	CacheKeyRevokedRefresh = "revoked_refresh:%s"
)

//============== EVENTS ==============

const (
	EventMaintenanceChanged = "maintenance.request.changed"
)

// Тип сообщения, который получает фронтенд по websocket.
const (
	WSMessageMaintenanceUpdated  = "maintenance.updated"
	WSMessageMaintenanceAssigned = "maintenance.assigned"
)
