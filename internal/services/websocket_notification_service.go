package services

import (
	"go.uber.org/zap"

	"gearguard/pkg/websocket"
)

// WebSocketNotificationServiceInterface - интерфейс, чтобы подменять в тестах.
type WebSocketNotificationServiceInterface interface {
	SendNotification(userID uint64, payload interface{}, messageType string) error
	Broadcast(payload interface{}, messageType string) error
}

type WebSocketNotificationService struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewWebSocketNotificationService(hub *websocket.Hub, logger *zap.Logger) WebSocketNotificationServiceInterface {
	return &WebSocketNotificationService{
		hub:    hub,
		logger: logger,
	}
}

func (s *WebSocketNotificationService) SendNotification(userID uint64, payload interface{}, messageType string) error {
	s.logger.Debug("Отправка WebSocket-уведомления",
		zap.Uint64("userID", userID),
		zap.String("type", messageType),
	)
	return s.hub.SendMessageToUser(userID, payload, messageType)
}

func (s *WebSocketNotificationService) Broadcast(payload interface{}, messageType string) error {
	s.logger.Debug("Рассылка WebSocket-сообщения", zap.String("type", messageType))
	return s.hub.Broadcast(payload, messageType)
}
