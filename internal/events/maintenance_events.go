package events

import (
	"time"

	"gearguard/pkg/constants"
)

// Действия над заявкой, о которых сообщает событие.
const (
	ActionCreated       = "created"
	ActionAssigned      = "assigned"
	ActionStatusChanged = "status_changed"
)

// MaintenanceRequestChangedEvent публикуется после коммита транзакции, изменившей заявку.
type MaintenanceRequestChangedEvent struct {
	EventID          string
	RequestID        uint64
	Action           string
	OldStatus        string
	NewStatus        string
	AssignedToUserID *uint64
	ActorUserID      uint64
	OccurredAt       time.Time
}

// Name - реализуем интерфейс eventbus.Event
func (e MaintenanceRequestChangedEvent) Name() string {
	return constants.EventMaintenanceChanged
}
