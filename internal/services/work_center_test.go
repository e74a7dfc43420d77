package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/pkg/constants"
)

func TestWorkCenter_CreateDefaults(t *testing.T) {
	env := newTestEnv()
	svc := NewWorkCenterService(env.workCenter, env.tx, zap.NewNop())
	ctx := context.Background()

	id, err := svc.CreateWorkCenter(ctx, dto.CreateWorkCenterDTO{Name: "Линия сборки", Code: null.StringFrom("  ")})
	require.NoError(t, err)

	out, err := svc.FindWorkCenter(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, out.Code, "пустой код не сохраняется")
	assert.Equal(t, 100.0, out.TimeEfficiencyPct)
	assert.Equal(t, constants.WorkCenterStatusActive, out.Status)

	_, err = svc.CreateWorkCenter(ctx, dto.CreateWorkCenterDTO{Name: "A", Code: null.StringFrom("WC-1")})
	require.NoError(t, err)
	_, err = svc.CreateWorkCenter(ctx, dto.CreateWorkCenterDTO{Name: "B", Code: null.StringFrom("WC-1")})
	requireHTTPCode(t, err, http.StatusConflict)
}

func TestWorkCenter_Update(t *testing.T) {
	env := newTestEnv()
	svc := NewWorkCenterService(env.workCenter, env.tx, zap.NewNop())
	ctx := context.Background()

	id, err := svc.CreateWorkCenter(ctx, dto.CreateWorkCenterDTO{Name: "Покраска", Code: null.StringFrom("PNT")})
	require.NoError(t, err)

	out, err := svc.UpdateWorkCenter(ctx, id,
		dto.UpdateWorkCenterDTO{CostPerHour: null.Float64From(42.5), Code: null.StringFrom("")},
		map[string]bool{"cost_per_hour": true, "code": true})
	require.NoError(t, err)
	assert.Equal(t, 42.5, out.CostPerHour)
	assert.Nil(t, out.Code)
	assert.Equal(t, "Покраска", out.Name)

	_, err = svc.UpdateWorkCenter(ctx, id, dto.UpdateWorkCenterDTO{}, map[string]bool{"name": true})
	requireHTTPCode(t, err, http.StatusBadRequest)
}

func TestWorkCenter_DeleteGuardedByRequests(t *testing.T) {
	env := newTestEnv()
	svc := NewWorkCenterService(env.workCenter, env.tx, zap.NewNop())
	ctx := context.Background()

	id, err := svc.CreateWorkCenter(ctx, dto.CreateWorkCenterDTO{Name: "Линия"})
	require.NoError(t, err)
	_, err = env.requests.Create(ctx, nil, entities.MaintenanceRequest{
		Type: constants.MaintenanceCorrective, Subject: "x", WorkCenterID: &id, Status: constants.StatusNew,
	})
	require.NoError(t, err)

	requireHTTPCode(t, svc.DeleteWorkCenter(ctx, id), http.StatusBadRequest)
	requireHTTPCode(t, svc.DeleteWorkCenter(ctx, 404), http.StatusNotFound)
}

func TestWorkCenter_Alternatives(t *testing.T) {
	env := newTestEnv()
	svc := NewWorkCenterService(env.workCenter, env.tx, zap.NewNop())
	ctx := context.Background()

	primary, err := svc.CreateWorkCenter(ctx, dto.CreateWorkCenterDTO{Name: "Основная линия"})
	require.NoError(t, err)
	backup, err := svc.CreateWorkCenter(ctx, dto.CreateWorkCenterDTO{Name: "Резервная линия"})
	require.NoError(t, err)

	requireHTTPCode(t, svc.AddAlternative(ctx, primary, primary), http.StatusBadRequest)
	requireHTTPCode(t, svc.AddAlternative(ctx, primary, 404), http.StatusNotFound)

	require.NoError(t, svc.AddAlternative(ctx, primary, backup))
	requireHTTPCode(t, svc.AddAlternative(ctx, primary, backup), http.StatusConflict)

	alts, err := svc.ListAlternatives(ctx, primary)
	require.NoError(t, err)
	require.Len(t, alts, 1)
	assert.Equal(t, backup, alts[0].ID)
	assert.Equal(t, "Резервная линия", alts[0].Name)

	_, err = svc.ListAlternatives(ctx, 404)
	requireHTTPCode(t, err, http.StatusNotFound)
}
