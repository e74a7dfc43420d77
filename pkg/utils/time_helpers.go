package utils

import (
	"strings"
	"time"

	apperrors "gearguard/pkg/errors"
)

const DateLayout = "2006-01-02"

// ParseDate разбирает календарную дату YYYY-MM-DD в UTC.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInputError("Неверная дата '%s', ожидается формат ГГГГ-ММ-ДД", value)
	}
	return d, nil
}

// ParseOptionalDate - пустая строка = nil.
func ParseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DateOnly отбрасывает время, оставляя дату в UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var dateTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04", DateLayout}

// ParseDateTime принимает RFC3339, "ГГГГ-ММ-ДДTчч:мм" (поле datetime-local) или просто дату.
// Значения без зоны считаются UTC.
func ParseDateTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.NewInvalidInputError("Неверная дата '%s', ожидается ISO 8601", value)
}
