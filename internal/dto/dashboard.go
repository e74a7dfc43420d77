package dto

// DashboardDTO - агрегаты по заявкам, считаются на каждый запрос.
type DashboardDTO struct {
	TotalRequests          int            `json:"total_requests"`
	OpenRequestCount       int            `json:"open_request_count"`
	CriticalEquipmentCount int            `json:"critical_equipment_count"`
	TechnicianLoadPct      int            `json:"technician_load_pct"`
	CountsByStatus         map[string]int `json:"counts_by_status"`
}
