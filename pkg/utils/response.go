package utils

import (
	"github.com/labstack/echo/v4"
)

// HTTPResponse - единый конверт ответа API.
type HTTPResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func SuccessResponse(ctx echo.Context, data interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// IDResponse - тело ответа на создание записи.
type IDResponse struct {
	ID uint64 `json:"id"`
}
