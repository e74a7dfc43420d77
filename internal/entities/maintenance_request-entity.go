package entities

import (
	"time"

	"gearguard/pkg/types"
)

type MaintenanceRequest struct {
	ID               uint64     `db:"id"`
	Type             string     `db:"type"`
	Subject          string     `db:"subject"`
	Description      *string    `db:"description"`
	EquipmentID      *uint64    `db:"equipment_id"`
	WorkCenterID     *uint64    `db:"work_center_id"`
	TeamID           *uint64    `db:"team_id"`
	ScheduledDate    *time.Time `db:"scheduled_date"`
	Status           string     `db:"status"`
	AssignedToUserID *uint64    `db:"assigned_to_user_id"`
	DurationHours    *float64   `db:"duration_hours"`
	CreatedByUserID  uint64     `db:"created_by_user_id"`

	types.BaseEntity

	// Поля для связанных данных (не колонки в таблице)
	EquipmentName  *string `db:"-"`
	WorkCenterName *string `db:"-"`
	TeamName       *string `db:"-"`
	AssignedToName *string `db:"-"`
	CreatedByName  *string `db:"-"`
}

// CalendarEntry - проекция заявки для календаря.
type CalendarEntry struct {
	ID             uint64
	Subject        string
	Type           string
	Status         string
	EquipmentName  *string
	WorkCenterName *string
	ScheduledDate  time.Time
}

// RequestStatusRow - минимальный срез заявки для агрегатов дашборда.
type RequestStatusRow struct {
	ID               uint64
	Status           string
	EquipmentID      *uint64
	AssignedToUserID *uint64
}
