package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/config"
	"gearguard/internal/services"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"
)

type EquipmentImportController struct {
	importService services.EquipmentImportServiceInterface
	logger        *zap.Logger
}

func NewEquipmentImportController(importService services.EquipmentImportServiceInterface, logger *zap.Logger) *EquipmentImportController {
	return &EquipmentImportController{importService: importService, logger: logger}
}

// ImportEquipment принимает xlsx в поле формы "file".
func (c *EquipmentImportController) ImportEquipment(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Файл не был передан"), c.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка обработки файла", err, nil),
			c.logger,
		)
	}
	defer src.Close()

	if err := utils.ValidateFile(fileHeader, src, config.UploadEquipmentImport); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	res, err := c.importService.ImportEquipment(ctx.Request().Context(), src)
	if err != nil {
		c.logger.Warn("ImportEquipment: импорт не выполнен", zap.String("file", fileHeader.Filename), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Импорт оборудования завершён", http.StatusOK)
}
