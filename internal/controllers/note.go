package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/services"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"
)

type NoteController struct {
	noteService services.NoteServiceInterface
	logger      *zap.Logger
}

func NewNoteController(noteService services.NoteServiceInterface, logger *zap.Logger) *NoteController {
	return &NoteController{noteService: noteService, logger: logger}
}

func (c *NoteController) ListNotes(ctx echo.Context) error {
	requestID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.noteService.ListNotes(ctx.Request().Context(), requestID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заметки получены", http.StatusOK)
}

func (c *NoteController) AddNote(ctx echo.Context) error {
	principal, err := utils.GetPrincipalFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requestID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateNoteDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных в теле запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.noteService.AddNote(ctx.Request().Context(), principal, requestID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заметка добавлена", http.StatusCreated)
}
