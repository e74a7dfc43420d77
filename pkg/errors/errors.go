package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = errors.New("неверный метод подписи токена")
	ErrInvalidToken         = errors.New("недопустимый токен")
	ErrTokenExpired         = errors.New("срок действия токена истёк")
	ErrTokenNotYetValid     = errors.New("токен ещё не активен")
	ErrTokenIsNotAccess     = errors.New("токен не является access-токеном")
	ErrTokenIsNotRefresh    = errors.New("токен не является refresh-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = errors.New("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = errors.New("неверный формат заголовка авторизации")
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrAccountLocked      = errors.New("аккаунт временно заблокирован, попробуйте позже")
	ErrUnauthorized       = errors.New("неавторизован")
	ErrForbidden          = errors.New("доступ запрещён")

	// Контекст
	ErrUserIDNotFoundInContext = errors.New("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound           = errors.New("запись не найдена")
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrBadRequest         = errors.New("неверный запрос")
	ErrValidation         = errors.New("ошибка валидации")
	ErrConflict           = errors.New("конфликт данных")
	ErrInvariantViolation = errors.New("операция нарушает целостность данных")
)

// HttpError несёт код ответа и сообщение для пользователя. Err - причина для логов и errors.Is.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, ErrBadRequest, nil)
}

func NewValidationError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, ErrValidation, nil)
}

func NewNotFoundError(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message, ErrNotFound, nil)
}

func NewConflictError(message string) *HttpError {
	return NewHttpError(http.StatusConflict, message, ErrConflict, nil)
}

func NewInvariantError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, ErrInvariantViolation, nil)
}

func NewForbiddenError(message string) *HttpError {
	return NewHttpError(http.StatusForbidden, message, ErrForbidden, nil)
}

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func (e *InvalidInputError) Unwrap() error { return ErrValidation }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
