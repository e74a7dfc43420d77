package dto

// MaintenanceReportDTO - выгрузка заявок с итогами.
type MaintenanceReportDTO struct {
	Items   []MaintenanceRequestDTO `json:"items"`
	Summary ReportSummaryDTO        `json:"summary"`
}

type ReportSummaryDTO struct {
	Total          int            `json:"total"`
	CountsByStatus map[string]int `json:"counts_by_status"`
	TotalHours     float64        `json:"total_duration_hours"`
	GeneratedAt    string         `json:"generated_at"`
}
