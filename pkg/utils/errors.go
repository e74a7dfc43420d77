package utils

import (
	"net/http"

	apperrors "gearguard/pkg/errors"
)

// ErrorList - статус ответа для "голых" сентинел-ошибок, пришедших без HttpError.
var ErrorList = map[error]int{
	apperrors.ErrNotFound:             http.StatusNotFound,
	apperrors.ErrUserNotFound:         http.StatusNotFound,
	apperrors.ErrBadRequest:           http.StatusBadRequest,
	apperrors.ErrValidation:           http.StatusBadRequest,
	apperrors.ErrInvariantViolation:   http.StatusBadRequest,
	apperrors.ErrConflict:             http.StatusConflict,
	apperrors.ErrForbidden:            http.StatusForbidden,
	apperrors.ErrUnauthorized:         http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials:   http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:      http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:    http.StatusUnauthorized,
	apperrors.ErrInvalidToken:         http.StatusUnauthorized,
	apperrors.ErrInvalidSigningMethod: http.StatusUnauthorized,
	apperrors.ErrTokenExpired:         http.StatusUnauthorized,
	apperrors.ErrTokenNotYetValid:     http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:     http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:    http.StatusUnauthorized,
	apperrors.ErrAccountLocked:        http.StatusLocked,

	apperrors.ErrUserIDNotFoundInContext: http.StatusUnauthorized,
}
