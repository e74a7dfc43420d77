package constants

// --- СТАТУСЫ ЗАЯВОК НА ОБСЛУЖИВАНИЕ (совпадают с CHECK в БД) ---
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusRepaired   = "repaired"
	StatusScrap      = "scrap"
)

// Финальные статусы
var FinalStatuses = []string{
	StatusRepaired,
	StatusScrap,
}

func IsFinalStatus(code string) bool {
	for _, s := range FinalStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// IsOpenStatus - заявка открыта, пока не дошла до финального статуса.
func IsOpenStatus(code string) bool {
	return !IsFinalStatus(code)
}

func IsKnownStatus(code string) bool {
	switch code {
	case StatusNew, StatusInProgress, StatusRepaired, StatusScrap:
		return true
	}
	return false
}

// --- ТИПЫ ОБСЛУЖИВАНИЯ ---
const (
	MaintenanceCorrective = "corrective"
	MaintenancePreventive = "preventive"
)

// --- СОБЫТИЯ ИСТОРИИ ЗАЯВКИ ---
const (
	HistoryCreated      = "CREATED"
	HistoryAssigned     = "ASSIGNED"
	HistoryStatusChange = "STATUS_CHANGE"
)
