package dto

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"

	"gearguard/pkg/validation"
)

// Значения за пределами NUMERIC-колонок отсекаются до похода в базу.
func TestNumericBounds(t *testing.T) {
	v := validation.New()
	ok, tooLong := 12.5, 1e8

	assert.NoError(t, v.Validate(&ChangeStatusDTO{Status: "repaired", DurationHours: &ok}))
	assert.Error(t, v.Validate(&ChangeStatusDTO{Status: "repaired", DurationHours: &tooLong}))

	assert.NoError(t, v.Validate(&CreateWorkCenterDTO{Name: "Линия 1", CostPerHour: null.Float64From(1500)}))
	assert.Error(t, v.Validate(&CreateWorkCenterDTO{Name: "Линия 1", CostPerHour: null.Float64From(1e10)}))
	assert.Error(t, v.Validate(&UpdateWorkCenterDTO{CapacityPerHour: null.Float64From(1e11)}))
}
