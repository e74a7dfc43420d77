package types

import "time"

// EquipmentFilter - фильтры списка оборудования. Пустое поле = без фильтра.
type EquipmentFilter struct {
	Department string
	Employee   string
	Status     string
	Search     string
}

// MaintenanceFilter - фильтры списка заявок на обслуживание.
type MaintenanceFilter struct {
	EquipmentID      *uint64
	WorkCenterID     *uint64
	AssignedToUserID *uint64
	Status           string
	Type             string
}

// CalendarRange - окно календаря. Нулевые границы означают "без ограничения".
type CalendarRange struct {
	From time.Time
	To   time.Time
}
