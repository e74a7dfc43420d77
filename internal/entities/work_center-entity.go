package entities

import (
	"gearguard/pkg/types"
)

type WorkCenter struct {
	ID                uint64  `db:"id"`
	Name              string  `db:"name"`
	Code              *string `db:"code"`
	Tag               *string `db:"tag"`
	CostPerHour       float64 `db:"cost_per_hour"`
	CapacityPerHour   float64 `db:"capacity_per_hour"`
	TimeEfficiencyPct float64 `db:"time_efficiency_pct"`
	OEETargetPct      float64 `db:"oee_target_pct"`
	Status            string  `db:"status"`

	types.BaseEntity
}

// WorkCenterAlternative - рабочий центр, на который можно перенести работу.
type WorkCenterAlternative struct {
	WorkCenterID uint64
	ID           uint64
	Name         string
	Code         *string
	Status       string
}
