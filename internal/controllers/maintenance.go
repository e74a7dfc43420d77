package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/services"
	"gearguard/pkg/constants"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
	"gearguard/pkg/utils"
)

type MaintenanceController struct {
	maintenanceService services.MaintenanceServiceInterface
	logger             *zap.Logger
}

func NewMaintenanceController(maintenanceService services.MaintenanceServiceInterface, logger *zap.Logger) *MaintenanceController {
	return &MaintenanceController{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// parseMaintenanceFilter общий для списка заявок и отчёта.
func parseMaintenanceFilter(ctx echo.Context) (types.MaintenanceFilter, error) {
	var (
		filter types.MaintenanceFilter
		err    error
	)
	if filter.EquipmentID, err = utils.ParseOptionalUintQuery(ctx, "equipment_id"); err != nil {
		return filter, err
	}
	if filter.WorkCenterID, err = utils.ParseOptionalUintQuery(ctx, "work_center_id"); err != nil {
		return filter, err
	}
	if filter.AssignedToUserID, err = utils.ParseOptionalUintQuery(ctx, "assigned_to_user_id"); err != nil {
		return filter, err
	}

	filter.Status = strings.TrimSpace(ctx.QueryParam("status"))
	if filter.Status != "" && !constants.IsKnownStatus(filter.Status) {
		return filter, apperrors.NewValidationError("Неизвестный статус в фильтре")
	}
	filter.Type = strings.TrimSpace(ctx.QueryParam("type"))
	if filter.Type != "" && filter.Type != constants.MaintenanceCorrective && filter.Type != constants.MaintenancePreventive {
		return filter, apperrors.NewValidationError("Неизвестный тип в фильтре")
	}
	return filter, nil
}

func (c *MaintenanceController) GetRequests(ctx echo.Context) error {
	filter, err := parseMaintenanceFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.maintenanceService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetRequests: ошибка при получении заявок", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список заявок успешно получен", http.StatusOK)
}

func (c *MaintenanceController) FindRequest(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.maintenanceService.FindRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно найдена", http.StatusOK)
}

func (c *MaintenanceController) CreateRequest(ctx echo.Context) error {
	principal, err := utils.GetPrincipalFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateMaintenanceRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateRequest: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных в теле запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	id, err := c.maintenanceService.CreateRequest(ctx.Request().Context(), principal, payload)
	if err != nil {
		c.logger.Warn("CreateRequest: заявка не создана", zap.Uint64("userID", principal.UserID), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, utils.IDResponse{ID: id}, "Заявка успешно создана", http.StatusCreated)
}

func (c *MaintenanceController) AssignRequest(ctx echo.Context) error {
	principal, err := utils.GetPrincipalFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных в теле запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.maintenanceService.AssignRequest(ctx.Request().Context(), principal, id, payload.UserID)
	if err != nil {
		c.logger.Warn("AssignRequest: назначение отклонено",
			zap.Uint64("id", id),
			zap.Uint64("assignee", payload.UserID),
			zap.Uint64("actor", principal.UserID),
			zap.Error(err),
		)
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Исполнитель назначен", http.StatusOK)
}

func (c *MaintenanceController) ChangeStatus(ctx echo.Context) error {
	principal, err := utils.GetPrincipalFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ChangeStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных в теле запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.maintenanceService.ChangeStatus(ctx.Request().Context(), principal, id, payload)
	if err != nil {
		c.logger.Warn("ChangeStatus: переход отклонён",
			zap.Uint64("id", id),
			zap.String("status", payload.Status),
			zap.Uint64("actor", principal.UserID),
			zap.Error(err),
		)
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статус заявки изменён", http.StatusOK)
}

func (c *MaintenanceController) GetCalendar(ctx echo.Context) error {
	var rng types.CalendarRange
	if raw := ctx.QueryParam("from"); raw != "" {
		t, err := utils.ParseDateTime(raw)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		rng.From = t
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		t, err := utils.ParseDateTime(raw)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		rng.To = t
	}

	res, err := c.maintenanceService.GetCalendar(ctx.Request().Context(), rng)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Календарь обслуживания получен", http.StatusOK)
}
