package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "gearguard/pkg/errors"
)

func newTestContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		code int
	}{
		{"HttpError", apperrors.NewConflictError("занято"), http.StatusConflict},
		{"обёрнутая HttpError", fmt.Errorf("слой: %w", apperrors.NewNotFoundError("нет")), http.StatusNotFound},
		{"сентинел", apperrors.ErrInvalidToken, http.StatusUnauthorized},
		{"обёрнутый сентинел", fmt.Errorf("repo: %w", apperrors.ErrInvariantViolation), http.StatusBadRequest},
		{"блокировка", apperrors.ErrAccountLocked, http.StatusLocked},
		{"ввод", apperrors.NewInvalidInputError("плохая дата"), http.StatusBadRequest},
		{"неизвестная", fmt.Errorf("соединение потеряно"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, rec := newTestContext(http.MethodGet, "")
			require.NoError(t, ErrorResponse(ctx, tc.err, zap.NewNop()))
			assert.Equal(t, tc.code, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrorResponseHidesInternalDetails(t *testing.T) {
	ctx, rec := newTestContext(http.MethodGet, "")
	require.NoError(t, ErrorResponse(ctx, fmt.Errorf("pq: password authentication failed"), zap.NewNop()))
	assert.NotContains(t, rec.Body.String(), "password authentication")
}

func TestBindPatch(t *testing.T) {
	var dst struct {
		Name *string `json:"name"`
	}
	ctx, _ := newTestContext(http.MethodPatch, `{"name": null, "location": "x"}`)
	sent, err := BindPatch(ctx, &dst)
	require.NoError(t, err)
	assert.True(t, sent["name"])
	assert.True(t, sent["location"])
	assert.Nil(t, dst.Name)

	ctx, _ = newTestContext(http.MethodPatch, `не json`)
	_, err = BindPatch(ctx, &dst)
	assert.Error(t, err)
}

func TestParseIDParam(t *testing.T) {
	for _, raw := range []string{"0", "-1", "abc", ""} {
		ctx, _ := newTestContext(http.MethodGet, "")
		ctx.SetParamNames("id")
		ctx.SetParamValues(raw)
		_, err := ParseIDParam(ctx, "id")
		assert.Error(t, err, raw)
	}

	ctx, _ := newTestContext(http.MethodGet, "")
	ctx.SetParamNames("id")
	ctx.SetParamValues("42")
	id, err := ParseIDParam(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}
