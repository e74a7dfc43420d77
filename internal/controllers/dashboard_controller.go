package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/pkg/utils"
)

func (c *MaintenanceController) GetDashboard(ctx echo.Context) error {
	res, err := c.maintenanceService.GetDashboard(ctx.Request().Context())
	if err != nil {
		c.logger.Error("GetDashboard: не удалось посчитать агрегаты", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Данные дашборда получены", http.StatusOK)
}
