package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gearguard/internal/events"
	"gearguard/pkg/constants"
	"gearguard/pkg/eventbus"
)

// AuditListener пишет каждое изменение заявки в отдельный журнал.
type AuditListener struct {
	logger *zap.Logger
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{logger: logger}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(constants.EventMaintenanceChanged, l.handle)
}

func (l *AuditListener) handle(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.MaintenanceRequestChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}

	fields := []zap.Field{
		zap.String("eventID", e.EventID),
		zap.Uint64("requestID", e.RequestID),
		zap.String("action", e.Action),
		zap.String("newStatus", e.NewStatus),
		zap.Uint64("actor", e.ActorUserID),
		zap.Time("occurredAt", e.OccurredAt),
	}
	if e.OldStatus != "" {
		fields = append(fields, zap.String("oldStatus", e.OldStatus))
	}
	if e.AssignedToUserID != nil {
		fields = append(fields, zap.Uint64("assignee", *e.AssignedToUserID))
	}
	l.logger.Info("Изменение заявки на обслуживание", fields...)
	return nil
}
