package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/services"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetReport - выгрузка заявок с теми же фильтрами, что у списка. format=xlsx|json, по умолчанию json.
func (c *ReportController) GetReport(ctx echo.Context) error {
	format := strings.ToLower(strings.TrimSpace(ctx.QueryParam("format")))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "xlsx" {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Формат отчёта: xlsx или json"), c.logger)
	}

	filter, err := parseMaintenanceFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Debug("Запрос на отчет с фильтрами", zap.Any("filters", filter), zap.String("format", format))

	report, err := c.reportService.GetReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "json" {
		return utils.SuccessResponse(ctx, report, "Отчет успешно сформирован", http.StatusOK)
	}

	fileName := fmt.Sprintf("maintenance_report_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	if err := c.reportService.WriteWorkbook(ctx.Response().Writer, report); err != nil {
		// заголовки уже ушли, остаётся только лог
		c.logger.Error("GetReport: ошибка записи xlsx", zap.Error(err))
		return err
	}
	return nil
}
