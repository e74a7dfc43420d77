package services

import (
	"go.uber.org/zap"
)

// PasswordResetNotifierInterface доставляет пользователю токен сброса пароля.
type PasswordResetNotifierInterface interface {
	SendPasswordResetEmail(to, token string) error
}

// logResetNotifier пишет токен в лог вместо отправки письма. Почтового шлюза в системе нет.
type logResetNotifier struct {
	logger *zap.Logger
}

func NewLogResetNotifier(logger *zap.Logger) PasswordResetNotifierInterface {
	return &logResetNotifier{logger: logger}
}

func (s *logResetNotifier) SendPasswordResetEmail(to, token string) error {
	s.logger.Warn("Токен сброса пароля (письмо не отправляется)",
		zap.String("to", to),
		zap.String("reset_token", token),
	)
	return nil
}
