package entities

import (
	"time"

	"gearguard/pkg/types"
)

type Equipment struct {
	ID                   uint64     `db:"id"`
	Name                 string     `db:"name"`
	SerialNumber         string     `db:"serial_number"`
	Category             *string    `db:"category"`
	Department           *string    `db:"department"`
	AssignedEmployeeName *string    `db:"assigned_employee_name"`
	PurchaseDate         *time.Time `db:"purchase_date"`
	WarrantyEndDate      *time.Time `db:"warranty_end_date"`
	Location             *string    `db:"location"`
	MaintenanceTeamID    *uint64    `db:"maintenance_team_id"`
	Status               string     `db:"status"`

	types.BaseEntity

	// Поля для связанных данных (не колонки в таблице)
	TeamName         *string `db:"-"`
	OpenRequestCount int     `db:"-"`
}
