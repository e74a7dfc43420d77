package dto

import "github.com/aarondl/null/v8"

type CreateWorkCenterDTO struct {
	Name              string       `json:"name" validate:"required,max=200"`
	Code              null.String  `json:"code" validate:"omitempty,max=50"`
	Tag               null.String  `json:"tag" validate:"omitempty,max=100"`
	CostPerHour       null.Float64 `json:"cost_per_hour" validate:"omitempty,gte=0,lte=9999999999"`
	CapacityPerHour   null.Float64 `json:"capacity_per_hour" validate:"omitempty,gte=0,lte=9999999999"`
	TimeEfficiencyPct null.Float64 `json:"time_efficiency_pct" validate:"omitempty,gte=0,lte=100"`
	OEETargetPct      null.Float64 `json:"oee_target_pct" validate:"omitempty,gte=0,lte=100"`
	Status            null.String  `json:"status" validate:"omitempty,work_center_status"`
}

type UpdateWorkCenterDTO struct {
	Name              null.String  `json:"name" db:"name" validate:"omitempty,max=200"`
	Code              null.String  `json:"code" db:"code" validate:"omitempty,max=50"`
	Tag               null.String  `json:"tag" db:"tag" validate:"omitempty,max=100"`
	CostPerHour       null.Float64 `json:"cost_per_hour" db:"cost_per_hour" validate:"omitempty,gte=0,lte=9999999999"`
	CapacityPerHour   null.Float64 `json:"capacity_per_hour" db:"capacity_per_hour" validate:"omitempty,gte=0,lte=9999999999"`
	TimeEfficiencyPct null.Float64 `json:"time_efficiency_pct" db:"time_efficiency_pct" validate:"omitempty,gte=0,lte=100"`
	OEETargetPct      null.Float64 `json:"oee_target_pct" db:"oee_target_pct" validate:"omitempty,gte=0,lte=100"`
	Status            null.String  `json:"status" db:"status" validate:"omitempty,work_center_status"`
}

type AddAlternativeDTO struct {
	AlternativeWorkCenterID uint64 `json:"alternative_work_center_id" validate:"required,gt=0"`
}

type WorkCenterDTO struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	Code              *string `json:"code"`
	Tag               *string `json:"tag"`
	CostPerHour       float64 `json:"cost_per_hour"`
	CapacityPerHour   float64 `json:"capacity_per_hour"`
	TimeEfficiencyPct float64 `json:"time_efficiency_pct"`
	OEETargetPct      float64 `json:"oee_target_pct"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type WorkCenterAlternativeDTO struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"name"`
	Code   *string `json:"code"`
	Status string  `json:"status"`
}
