package dto

import "github.com/aarondl/null/v8"

type CreateMaintenanceRequestDTO struct {
	Type            string      `json:"type" validate:"required,maintenance_type"`
	Subject         string      `json:"subject" validate:"required,max=255"`
	Description     null.String `json:"description" validate:"omitempty,max=5000"`
	EquipmentID     null.Uint64 `json:"equipment_id" validate:"omitempty,gt=0"`
	WorkCenterID    null.Uint64 `json:"work_center_id" validate:"omitempty,gt=0"`
	TeamID          null.Uint64 `json:"team_id" validate:"omitempty,gt=0"`
	ScheduledDate   null.String `json:"scheduled_date"`
	CreatedByUserID null.Uint64 `json:"created_by_user_id" validate:"omitempty,gt=0"`
}

type AssignRequestDTO struct {
	UserID uint64 `json:"user_id" validate:"required,gt=0"`
}

type ChangeStatusDTO struct {
	Status        string   `json:"status" validate:"required,request_status"`
	DurationHours *float64 `json:"duration_hours" validate:"omitempty,lte=99999999"`
}

type MaintenanceRequestDTO struct {
	ID               uint64   `json:"id"`
	Type             string   `json:"type"`
	Subject          string   `json:"subject"`
	Description      *string  `json:"description"`
	EquipmentID      *uint64  `json:"equipment_id"`
	EquipmentName    *string  `json:"equipment_name"`
	WorkCenterID     *uint64  `json:"work_center_id"`
	WorkCenterName   *string  `json:"work_center_name"`
	TeamID           *uint64  `json:"team_id"`
	TeamName         *string  `json:"team_name"`
	ScheduledDate    *string  `json:"scheduled_date"`
	Status           string   `json:"status"`
	AssignedToUserID *uint64  `json:"assigned_to_user_id"`
	AssignedToName   *string  `json:"assigned_to_name"`
	DurationHours    *float64 `json:"duration_hours"`
	CreatedByUserID  uint64   `json:"created_by_user_id"`
	CreatedByName    *string  `json:"created_by_name"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

type CalendarEntryDTO struct {
	ID             uint64  `json:"id"`
	Subject        string  `json:"subject"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
	EquipmentName  *string `json:"equipment_name"`
	WorkCenterName *string `json:"work_center_name"`
	ScheduledDate  string  `json:"scheduled_date"`
}
