package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gearguard/pkg/errors"
)

func TestParseDateTime(t *testing.T) {
	testCases := []struct {
		input string
		want  time.Time
	}{
		{"2026-03-10T09:30:00+03:00", time.Date(2026, 3, 10, 6, 30, 0, 0, time.UTC)},
		{"2026-03-10T09:30:00Z", time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)},
		{"2026-03-10T09:30", time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)},
		{" 2026-03-10 ", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDateTime(tc.input)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := ParseDateTime("10.03.2026")
	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &inputErr)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseOptionalDate("2024-02-29")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2024-02-29", d.Format(DateLayout))

	_, err = ParseOptionalDate("2023-02-29")
	assert.Error(t, err)
}
