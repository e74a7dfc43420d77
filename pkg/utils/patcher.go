package utils

import (
	"database/sql/driver"
	"encoding/json"
	"reflect"
	"strings"

	apperrors "gearguard/pkg/errors"
)

// SentFields возвращает ключи верхнего уровня, реально присланные в теле запроса.
// Нужен, чтобы отличить "поле не прислали" от "прислали null".
func SentFields(rawRequestBody []byte) (map[string]bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rawRequestBody, &fields); err != nil {
		return nil, apperrors.NewValidationError("Неверный формат JSON")
	}
	sent := make(map[string]bool, len(fields))
	for k := range fields {
		sent[k] = true
	}
	return sent, nil
}

// ChangedColumns собирает колонки для UPDATE по присланным полям DTO.
// Имя колонки берётся из тега db, ключ в теле - из тега json. Поля без db или с db:"-" пропускаются.
// null.* превращаются в nil/примитив через driver.Valuer.
func ChangedColumns(patchDTO interface{}, sent map[string]bool) map[string]interface{} {
	out := make(map[string]interface{})

	v := reflect.ValueOf(patchDTO)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)
		column := fieldType.Tag.Get("db")
		if column == "" || column == "-" {
			continue
		}
		jsonName := strings.Split(fieldType.Tag.Get("json"), ",")[0]
		if !sent[jsonName] {
			continue
		}

		value := v.Field(i).Interface()
		if valuer, ok := value.(driver.Valuer); ok {
			plain, err := valuer.Value()
			if err != nil {
				continue
			}
			out[column] = plain
			continue
		}
		out[column] = value
	}
	return out
}
