package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gearguard/pkg/utils"
)

// GetHistory - журнал жизненного цикла заявки, от старых записей к новым.
func (c *MaintenanceController) GetHistory(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.maintenanceService.GetHistory(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "История заявки получена", http.StatusOK)
}
