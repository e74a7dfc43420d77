package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name                 string      `json:"name" validate:"required,max=200"`
	SerialNumber         string      `json:"serial_number" validate:"required,max=100"`
	Category             null.String `json:"category" validate:"omitempty,max=100"`
	Department           null.String `json:"department" validate:"omitempty,max=150"`
	AssignedEmployeeName null.String `json:"assigned_employee_name" validate:"omitempty,max=150"`
	PurchaseDate         null.String `json:"purchase_date" validate:"omitempty,date_only"`
	WarrantyEndDate      null.String `json:"warranty_end_date" validate:"omitempty,date_only"`
	Location             null.String `json:"location" validate:"omitempty,max=200"`
	MaintenanceTeamID    null.Uint64 `json:"maintenance_team_id" validate:"omitempty,gt=0"`
	Status               null.String `json:"status" validate:"omitempty,equipment_status"`
}

// UpdateEquipmentDTO - частичное обновление. Какие поля прислали, решает тело запроса,
// а не значения: null в теле очищает колонку.
type UpdateEquipmentDTO struct {
	Name                 null.String `json:"name" db:"name" validate:"omitempty,max=200"`
	SerialNumber         null.String `json:"serial_number" db:"serial_number" validate:"omitempty,max=100"`
	Category             null.String `json:"category" db:"category" validate:"omitempty,max=100"`
	Department           null.String `json:"department" db:"department" validate:"omitempty,max=150"`
	AssignedEmployeeName null.String `json:"assigned_employee_name" db:"assigned_employee_name" validate:"omitempty,max=150"`
	PurchaseDate         null.String `json:"purchase_date" db:"purchase_date" validate:"omitempty,date_only"`
	WarrantyEndDate      null.String `json:"warranty_end_date" db:"warranty_end_date" validate:"omitempty,date_only"`
	Location             null.String `json:"location" db:"location" validate:"omitempty,max=200"`
	MaintenanceTeamID    null.Uint64 `json:"maintenance_team_id" db:"maintenance_team_id" validate:"omitempty,gt=0"`
	Status               null.String `json:"status" db:"status" validate:"omitempty,equipment_status"`
}

type EquipmentDTO struct {
	ID                   uint64  `json:"id"`
	Name                 string  `json:"name"`
	SerialNumber         string  `json:"serial_number"`
	Category             *string `json:"category"`
	Department           *string `json:"department"`
	AssignedEmployeeName *string `json:"assigned_employee_name"`
	PurchaseDate         *string `json:"purchase_date"`
	WarrantyEndDate      *string `json:"warranty_end_date"`
	Location             *string `json:"location"`
	MaintenanceTeamID    *uint64 `json:"maintenance_team_id"`
	TeamName             *string `json:"team_name"`
	Status               string  `json:"status"`
	OpenRequestCount     *int    `json:"open_request_count,omitempty"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}

// EquipmentImportResultDTO - итог импорта. Row - номер строки в книге, с единицы.
type EquipmentImportResultDTO struct {
	Created int                 `json:"created"`
	Skipped int                 `json:"skipped"`
	Errors  []ImportRowErrorDTO `json:"errors"`
}

type ImportRowErrorDTO struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
