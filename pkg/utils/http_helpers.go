package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "gearguard/pkg/errors"
)

const internalErrorMessage = "Внутренняя ошибка сервера"

// ErrorResponse переводит ошибку в HTTP-ответ. Внутренние подробности уходят только в лог.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}

		response := map[string]interface{}{
			"success": false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["data"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{Success: false, Message: "Ошибка валидации: " + strings.Join(msgs, "; ")})
	}

	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		return c.JSON(http.StatusBadRequest, &HTTPResponse{Success: false, Message: inputErr.Message})
	}

	for sentinel, statusCode := range ErrorList {
		if errors.Is(err, sentinel) {
			return c.JSON(statusCode, &HTTPResponse{Success: false, Message: sentinel.Error()})
		}
	}

	logger.Error("Unexpected Error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{Success: false, Message: internalErrorMessage})
}

// ParseIDParam читает положительный uint64 из параметра пути.
func ParseIDParam(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			fmt.Sprintf("Неверный формат параметра '%s'", name),
			apperrors.ErrValidation,
			map[string]interface{}{"param": raw},
		)
	}
	return id, nil
}

// ParseOptionalUintQuery - пустой параметр = nil.
func ParseOptionalUintQuery(ctx echo.Context, name string) (*uint64, error) {
	raw := strings.TrimSpace(ctx.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Неверное значение фильтра '%s'", name))
	}
	return &v, nil
}

// BindPatch разбирает тело PATCH/PUT в dst и возвращает набор реально присланных ключей.
func BindPatch(ctx echo.Context, dst interface{}) (map[string]bool, error) {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Не удалось прочитать тело запроса")
	}
	sent, err := SentFields(body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, apperrors.NewBadRequestError("Неверный формат данных в теле запроса")
	}
	return sent, nil
}
