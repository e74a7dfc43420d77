package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gearguard/internal/events"
	"gearguard/internal/services"
	"gearguard/pkg/constants"
	"gearguard/pkg/eventbus"
	"gearguard/pkg/websocket"
)

// NotificationListener рассылает изменения заявок по websocket.
// Все клиенты получают maintenance.updated, новый исполнитель - ещё и личное maintenance.assigned.
type NotificationListener struct {
	wsNotificationService services.WebSocketNotificationServiceInterface
	logger                *zap.Logger
}

func NewNotificationListener(
	wsNotificationService services.WebSocketNotificationServiceInterface,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		wsNotificationService: wsNotificationService,
		logger:                logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(constants.EventMaintenanceChanged, l.handleMaintenanceChanged)
	l.logger.Info("NotificationListener подписан на событие", zap.String("event", constants.EventMaintenanceChanged))
}

func (l *NotificationListener) handleMaintenanceChanged(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.MaintenanceRequestChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}

	payload := websocket.MaintenanceUpdatePayload{
		RequestID:        e.RequestID,
		Action:           e.Action,
		Status:           e.NewStatus,
		OldStatus:        e.OldStatus,
		AssignedToUserID: e.AssignedToUserID,
		ActorUserID:      e.ActorUserID,
	}

	if err := l.wsNotificationService.Broadcast(payload, constants.WSMessageMaintenanceUpdated); err != nil {
		l.logger.Warn("Не удалось разослать обновление заявки", zap.Uint64("requestID", e.RequestID), zap.Error(err))
	}

	if e.Action == events.ActionAssigned && e.AssignedToUserID != nil && *e.AssignedToUserID != e.ActorUserID {
		// пользователь может быть не в сети, это не ошибка
		if err := l.wsNotificationService.SendNotification(*e.AssignedToUserID, payload, constants.WSMessageMaintenanceAssigned); err != nil {
			l.logger.Debug("Исполнитель не получил личное уведомление",
				zap.Uint64("userID", *e.AssignedToUserID),
				zap.Error(err),
			)
		}
	}
	return nil
}
