package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/pkg/utils"
)

// Pinger - зависимость, которую проверяет /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db     Pinger
	cache  Pinger
	logger *zap.Logger
}

func NewHealthController(db, cache Pinger, logger *zap.Logger) *HealthController {
	return &HealthController{db: db, cache: cache, logger: logger}
}

func (c *HealthController) Check(ctx echo.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"database": "ok", "cache": "ok"}
	healthy := true
	if err := c.db.Ping(pingCtx); err != nil {
		c.logger.Error("Health: база данных недоступна", zap.Error(err))
		status["database"] = "unavailable"
		healthy = false
	}
	if err := c.cache.Ping(pingCtx); err != nil {
		c.logger.Error("Health: Redis недоступен", zap.Error(err))
		status["cache"] = "unavailable"
		healthy = false
	}

	if !healthy {
		return ctx.JSON(http.StatusServiceUnavailable, &utils.HTTPResponse{Success: false, Data: status, Message: "Сервис деградировал"})
	}
	return utils.SuccessResponse(ctx, status, "OK", http.StatusOK)
}
