package services

import (
	"math"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/pkg/constants"
)

// ComputeDashboard - агрегаты дашборда по срезу заявок.
// Открытой считается заявка не в финальном статусе, критичное оборудование - то, на которое есть открытые заявки.
func ComputeDashboard(rows []entities.RequestStatusRow) dto.DashboardDTO {
	out := dto.DashboardDTO{
		TotalRequests: len(rows),
		CountsByStatus: map[string]int{
			constants.StatusNew:        0,
			constants.StatusInProgress: 0,
			constants.StatusRepaired:   0,
			constants.StatusScrap:      0,
		},
	}

	critical := make(map[uint64]struct{})
	assignedOpen := 0
	for _, r := range rows {
		out.CountsByStatus[r.Status]++
		if !constants.IsOpenStatus(r.Status) {
			continue
		}
		out.OpenRequestCount++
		if r.AssignedToUserID != nil {
			assignedOpen++
		}
		if r.EquipmentID != nil {
			critical[*r.EquipmentID] = struct{}{}
		}
	}

	out.CriticalEquipmentCount = len(critical)
	if out.OpenRequestCount > 0 {
		out.TechnicianLoadPct = int(math.Round(100 * float64(assignedOpen) / float64(out.OpenRequestCount)))
	}
	return out
}
