package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/eventbus"
	"gearguard/pkg/utils"
)

// EventPublisher - то, что сервисам нужно от шины событий.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// notFoundAs заменяет "голый" ErrNotFound из репозитория сообщением для пользователя.
// Остальные ошибки возвращаются как есть.
func notFoundAs(err error, message string) error {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrUserNotFound) {
		return apperrors.NewHttpError(http.StatusNotFound, message, apperrors.ErrNotFound, nil)
	}
	return err
}

// conflictAs - то же для нарушений уникальности, пойманных индексом.
func conflictAs(err error, message string) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.NewHttpError(http.StatusConflict, message, err, nil)
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(utils.DateLayout)
	return &s
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// normalizePatch обрезает пробелы в строковых колонках и не даёт очистить обязательные.
func normalizePatch(columns map[string]interface{}, required []string) error {
	for col, v := range columns {
		if str, ok := v.(string); ok {
			columns[col] = strings.TrimSpace(str)
		}
	}
	for _, col := range required {
		v, sent := columns[col]
		if !sent {
			continue
		}
		if str, ok := v.(string); v == nil || (ok && str == "") {
			return apperrors.NewValidationError(fmt.Sprintf("Поле '%s' не может быть пустым", col))
		}
	}
	return nil
}

// patchDateColumn заменяет строку ГГГГ-ММ-ДД в патче на time.Time. Пустая строка очищает колонку.
func patchDateColumn(columns map[string]interface{}, col string) error {
	v, sent := columns[col]
	if !sent || v == nil {
		return nil
	}
	str, ok := v.(string)
	if !ok {
		return nil
	}
	d, err := utils.ParseOptionalDate(str)
	if err != nil {
		return err
	}
	if d == nil {
		columns[col] = nil
		return nil
	}
	columns[col] = *d
	return nil
}

// columnUint64 достаёт присланный не-null id из патча, включая 0. null.Uint64 отдаёт значение как int64.
func columnUint64(columns map[string]interface{}, col string) (uint64, bool) {
	switch v := columns[col].(type) {
	case int64:
		return uint64(v), true
	case uint64:
		return v, true
	default:
		return 0, false
	}
}

// invariantAsNotFound - нарушение FK при вставке дочерней строки значит, что родителя уже нет.
func invariantAsNotFound(err error) error {
	if errors.Is(err, apperrors.ErrInvariantViolation) {
		return apperrors.ErrNotFound
	}
	return err
}
