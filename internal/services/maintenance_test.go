package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/events"
	"gearguard/pkg/constants"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

// requireHTTPCode проверяет код, с которым ошибка уйдёт клиенту.
// InvalidInputError отдаётся как 400.
func requireHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		assert.Equal(t, http.StatusBadRequest, code, inputErr.Message)
		return
	}
	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr), "ожидалась HttpError, получено %v", err)
	assert.Equal(t, code, httpErr.Code, httpErr.Message)
}

func newMaintenanceService(env *testEnv) MaintenanceServiceInterface {
	return NewMaintenanceService(
		env.requests, env.equipment, env.workCenter, env.teams, env.users,
		env.history, env.tx, env.publisher, zap.NewNop(),
	)
}

type maintenanceFixture struct {
	env         *testEnv
	svc         MaintenanceServiceInterface
	teamID      uint64
	equipmentID uint64
	requester   types.Principal
	technician  types.Principal
	other       types.Principal
	manager     types.Principal
}

func newMaintenanceFixture(t *testing.T) *maintenanceFixture {
	t.Helper()
	env := newTestEnv()
	ctx := context.Background()

	teamID, err := env.teams.Create(ctx, nil, "Механики")
	require.NoError(t, err)

	f := &maintenanceFixture{
		env:         env,
		svc:         newMaintenanceService(env),
		teamID:      teamID,
		equipmentID: env.addEquipment("Станок ЧПУ", "SN-001", &teamID),
		requester:   types.Principal{UserID: env.users.add("Оператор", "op@example.com", constants.RoleUser), Role: constants.RoleUser},
		technician:  types.Principal{UserID: env.users.add("Техник", "tech@example.com", constants.RoleTechnician), Role: constants.RoleTechnician},
		other:       types.Principal{UserID: env.users.add("Другой техник", "tech2@example.com", constants.RoleTechnician), Role: constants.RoleTechnician},
		manager:     types.Principal{UserID: env.users.add("Менеджер", "boss@example.com", constants.RoleManager), Role: constants.RoleManager},
	}
	return f
}

func (f *maintenanceFixture) createCorrective(t *testing.T) uint64 {
	t.Helper()
	id, err := f.svc.CreateRequest(context.Background(), f.requester, dto.CreateMaintenanceRequestDTO{
		Type:        constants.MaintenanceCorrective,
		Subject:     "Протечка масла",
		EquipmentID: null.Uint64From(f.equipmentID),
	})
	require.NoError(t, err)
	return id
}

func hours(v float64) *float64 { return &v }

func TestMaintenance_FullLifecycle(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	id := f.createCorrective(t)

	created, err := f.svc.FindRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusNew, created.Status)
	assert.Nil(t, created.AssignedToUserID)
	assert.Equal(t, f.requester.UserID, created.CreatedByUserID)
	require.NotNil(t, created.TeamID, "команда наследуется от оборудования")
	assert.Equal(t, f.teamID, *created.TeamID)

	assigned, err := f.svc.AssignRequest(ctx, f.technician, id, f.technician.UserID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToUserID)
	assert.Equal(t, f.technician.UserID, *assigned.AssignedToUserID)

	started, err := f.svc.ChangeStatus(ctx, f.technician, id, dto.ChangeStatusDTO{Status: constants.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, started.Status)

	done, err := f.svc.ChangeStatus(ctx, f.technician, id, dto.ChangeStatusDTO{Status: constants.StatusRepaired, DurationHours: hours(2.5)})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusRepaired, done.Status)
	require.NotNil(t, done.DurationHours)
	assert.InDelta(t, 2.5, *done.DurationHours, 1e-9)

	history, err := f.svc.GetHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, constants.HistoryCreated, history[0].EventType)
	assert.Equal(t, constants.HistoryAssigned, history[1].EventType)
	assert.Equal(t, constants.HistoryStatusChange, history[2].EventType)
	require.NotNil(t, history[3].OldValue)
	assert.Equal(t, constants.StatusInProgress, *history[3].OldValue)
	assert.Equal(t, constants.StatusRepaired, *history[3].NewValue)

	assert.Equal(t, 4, f.env.publisher.count())
	last := f.env.publisher.events[3].(events.MaintenanceRequestChangedEvent)
	assert.Equal(t, events.ActionStatusChanged, last.Action)
	assert.Equal(t, constants.StatusRepaired, last.NewStatus)
	assert.NotEmpty(t, last.EventID)
}

func TestMaintenance_FinalStatusesAreTerminal(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	id := f.createCorrective(t)
	_, err := f.svc.AssignRequest(ctx, f.technician, id, f.technician.UserID)
	require.NoError(t, err)
	_, err = f.svc.ChangeStatus(ctx, f.technician, id, dto.ChangeStatusDTO{Status: constants.StatusScrap})
	require.NoError(t, err)

	for _, target := range []string{constants.StatusNew, constants.StatusInProgress, constants.StatusScrap} {
		_, err = f.svc.ChangeStatus(ctx, f.technician, id, dto.ChangeStatusDTO{Status: target})
		requireHTTPCode(t, err, http.StatusConflict)
	}
	_, err = f.svc.ChangeStatus(ctx, f.technician, id, dto.ChangeStatusDTO{Status: constants.StatusRepaired, DurationHours: hours(1)})
	requireHTTPCode(t, err, http.StatusConflict)

	_, err = f.svc.AssignRequest(ctx, f.manager, id, f.other.UserID)
	requireHTTPCode(t, err, http.StatusConflict)

	current, err := f.svc.FindRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusScrap, current.Status)
}

func TestMaintenance_RepairedRequiresInProgress(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	id := f.createCorrective(t)
	_, err := f.svc.AssignRequest(ctx, f.technician, id, f.technician.UserID)
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(ctx, f.technician, id, dto.ChangeStatusDTO{Status: constants.StatusRepaired, DurationHours: hours(1)})
	requireHTTPCode(t, err, http.StatusConflict)
}

func TestMaintenance_ChangeStatusDurationRules(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	id := f.createCorrective(t)
	_, err := f.svc.AssignRequest(ctx, f.technician, id, f.technician.UserID)
	require.NoError(t, err)
	_, err = f.svc.ChangeStatus(ctx, f.technician, id, dto.ChangeStatusDTO{Status: constants.StatusInProgress})
	require.NoError(t, err)

	testCases := []struct {
		name    string
		payload dto.ChangeStatusDTO
	}{
		{"без длительности", dto.ChangeStatusDTO{Status: constants.StatusRepaired}},
		{"нулевая длительность", dto.ChangeStatusDTO{Status: constants.StatusRepaired, DurationHours: hours(0)}},
		{"отрицательная длительность", dto.ChangeStatusDTO{Status: constants.StatusRepaired, DurationHours: hours(-1)}},
		{"длительность за пределом колонки", dto.ChangeStatusDTO{Status: constants.StatusRepaired, DurationHours: hours(1e8)}},
		{"длительность при списании", dto.ChangeStatusDTO{Status: constants.StatusScrap, DurationHours: hours(1)}},
		{"неизвестный статус", dto.ChangeStatusDTO{Status: "archived"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ChangeStatus(ctx, f.technician, id, tc.payload)
			requireHTTPCode(t, err, http.StatusBadRequest)
		})
	}

	current, err := f.svc.FindRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, current.Status)
	assert.Nil(t, current.DurationHours)
}

func TestMaintenance_StatusChangeAuthorization(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	unassigned := f.createCorrective(t)
	_, err := f.svc.ChangeStatus(ctx, f.technician, unassigned, dto.ChangeStatusDTO{Status: constants.StatusInProgress})
	requireHTTPCode(t, err, http.StatusForbidden)

	// менеджер может списать и неназначенную заявку
	_, err = f.svc.ChangeStatus(ctx, f.manager, unassigned, dto.ChangeStatusDTO{Status: constants.StatusScrap})
	require.NoError(t, err)

	assigned := f.createCorrective(t)
	_, err = f.svc.AssignRequest(ctx, f.technician, assigned, f.technician.UserID)
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(ctx, f.other, assigned, dto.ChangeStatusDTO{Status: constants.StatusInProgress})
	requireHTTPCode(t, err, http.StatusForbidden)
	_, err = f.svc.ChangeStatus(ctx, f.manager, assigned, dto.ChangeStatusDTO{Status: constants.StatusInProgress})
	requireHTTPCode(t, err, http.StatusForbidden)
	_, err = f.svc.ChangeStatus(ctx, f.other, assigned, dto.ChangeStatusDTO{Status: constants.StatusScrap})
	requireHTTPCode(t, err, http.StatusForbidden)
}

func TestMaintenance_AssignmentIsExclusive(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	id := f.createCorrective(t)
	_, err := f.svc.AssignRequest(ctx, f.technician, id, f.technician.UserID)
	require.NoError(t, err)
	published := f.env.publisher.count()
	historyLen := len(f.env.history.items)

	// повторное назначение того же исполнителя ничего не меняет
	again, err := f.svc.AssignRequest(ctx, f.technician, id, f.technician.UserID)
	require.NoError(t, err)
	assert.Equal(t, f.technician.UserID, *again.AssignedToUserID)
	assert.Equal(t, published, f.env.publisher.count())
	assert.Len(t, f.env.history.items, historyLen)

	_, err = f.svc.AssignRequest(ctx, f.other, id, f.other.UserID)
	requireHTTPCode(t, err, http.StatusConflict)
	_, err = f.svc.AssignRequest(ctx, f.manager, id, f.other.UserID)
	requireHTTPCode(t, err, http.StatusConflict)

	current, err := f.svc.FindRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, f.technician.UserID, *current.AssignedToUserID)
}

func TestMaintenance_AssignRules(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	id := f.createCorrective(t)

	_, err := f.svc.AssignRequest(ctx, f.technician, id, f.other.UserID)
	requireHTTPCode(t, err, http.StatusForbidden)

	_, err = f.svc.AssignRequest(ctx, f.manager, id, 999)
	requireHTTPCode(t, err, http.StatusNotFound)

	_, err = f.svc.AssignRequest(ctx, f.manager, 999, f.other.UserID)
	requireHTTPCode(t, err, http.StatusNotFound)

	out, err := f.svc.AssignRequest(ctx, f.manager, id, f.other.UserID)
	require.NoError(t, err)
	assert.Equal(t, f.other.UserID, *out.AssignedToUserID)

	event := f.env.publisher.events[len(f.env.publisher.events)-1].(events.MaintenanceRequestChangedEvent)
	assert.Equal(t, events.ActionAssigned, event.Action)
	require.NotNil(t, event.AssignedToUserID)
	assert.Equal(t, f.other.UserID, *event.AssignedToUserID)
	assert.Equal(t, f.manager.UserID, event.ActorUserID)
}

func TestMaintenance_CreateValidation(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	wcID, err := f.env.workCenter.Create(ctx, nil, workCenterFixture("Линия 1"))
	require.NoError(t, err)

	testCases := []struct {
		name    string
		payload dto.CreateMaintenanceRequestDTO
		code    int
	}{
		{
			name:    "пустая тема",
			payload: dto.CreateMaintenanceRequestDTO{Type: constants.MaintenanceCorrective, Subject: "   ", EquipmentID: null.Uint64From(f.equipmentID)},
			code:    http.StatusBadRequest,
		},
		{
			name:    "неизвестный тип",
			payload: dto.CreateMaintenanceRequestDTO{Type: "urgent", Subject: "x", EquipmentID: null.Uint64From(f.equipmentID)},
			code:    http.StatusBadRequest,
		},
		{
			name:    "ни оборудования, ни рабочего центра",
			payload: dto.CreateMaintenanceRequestDTO{Type: constants.MaintenanceCorrective, Subject: "x"},
			code:    http.StatusBadRequest,
		},
		{
			name: "и оборудование, и рабочий центр",
			payload: dto.CreateMaintenanceRequestDTO{
				Type: constants.MaintenanceCorrective, Subject: "x",
				EquipmentID: null.Uint64From(f.equipmentID), WorkCenterID: null.Uint64From(wcID),
			},
			code: http.StatusBadRequest,
		},
		{
			name:    "плановая без даты",
			payload: dto.CreateMaintenanceRequestDTO{Type: constants.MaintenancePreventive, Subject: "ТО", EquipmentID: null.Uint64From(f.equipmentID)},
			code:    http.StatusBadRequest,
		},
		{
			name: "неверная дата",
			payload: dto.CreateMaintenanceRequestDTO{
				Type: constants.MaintenancePreventive, Subject: "ТО",
				EquipmentID: null.Uint64From(f.equipmentID), ScheduledDate: null.StringFrom("завтра"),
			},
			code: http.StatusBadRequest,
		},
		{
			name: "от имени другого пользователя",
			payload: dto.CreateMaintenanceRequestDTO{
				Type: constants.MaintenanceCorrective, Subject: "x",
				EquipmentID: null.Uint64From(f.equipmentID), CreatedByUserID: null.Uint64From(f.manager.UserID),
			},
			code: http.StatusForbidden,
		},
		{
			name:    "несуществующее оборудование",
			payload: dto.CreateMaintenanceRequestDTO{Type: constants.MaintenanceCorrective, Subject: "x", EquipmentID: null.Uint64From(404)},
			code:    http.StatusNotFound,
		},
		{
			name:    "несуществующий рабочий центр",
			payload: dto.CreateMaintenanceRequestDTO{Type: constants.MaintenanceCorrective, Subject: "x", WorkCenterID: null.Uint64From(404)},
			code:    http.StatusNotFound,
		},
		{
			name: "несуществующая команда",
			payload: dto.CreateMaintenanceRequestDTO{
				Type: constants.MaintenanceCorrective, Subject: "x",
				EquipmentID: null.Uint64From(f.equipmentID), TeamID: null.Uint64From(404),
			},
			code: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateRequest(ctx, f.requester, tc.payload)
			requireHTTPCode(t, err, tc.code)
		})
	}
	assert.Empty(t, f.env.requests.items)
	assert.Zero(t, f.env.publisher.count())
}

func TestMaintenance_CreatePreventiveOnWorkCenter(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	wcID, err := f.env.workCenter.Create(ctx, nil, workCenterFixture("Сборочный участок"))
	require.NoError(t, err)

	id, err := f.svc.CreateRequest(ctx, f.requester, dto.CreateMaintenanceRequestDTO{
		Type:            constants.MaintenancePreventive,
		Subject:         "  Плановое ТО  ",
		WorkCenterID:    null.Uint64From(wcID),
		ScheduledDate:   null.StringFrom("2026-03-10T09:30"),
		CreatedByUserID: null.Uint64From(f.requester.UserID),
	})
	require.NoError(t, err)

	out, err := f.svc.FindRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Плановое ТО", out.Subject)
	assert.Nil(t, out.TeamID)
	assert.Nil(t, out.EquipmentID)
	require.NotNil(t, out.ScheduledDate)
	assert.Equal(t, "2026-03-10T09:30:00Z", *out.ScheduledDate)
}

func TestMaintenance_ExplicitTeamOverridesEquipmentTeam(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	electricians, err := f.env.teams.Create(ctx, nil, "Электрики")
	require.NoError(t, err)

	id, err := f.svc.CreateRequest(ctx, f.requester, dto.CreateMaintenanceRequestDTO{
		Type:        constants.MaintenanceCorrective,
		Subject:     "Не включается",
		EquipmentID: null.Uint64From(f.equipmentID),
		TeamID:      null.Uint64From(electricians),
	})
	require.NoError(t, err)

	out, err := f.svc.FindRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, electricians, *out.TeamID)
}

func TestMaintenance_Calendar(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2026-05-20", "2026-05-02", "2026-06-01"} {
		_, err := f.svc.CreateRequest(ctx, f.requester, dto.CreateMaintenanceRequestDTO{
			Type:          constants.MaintenancePreventive,
			Subject:       "ТО " + date,
			EquipmentID:   null.Uint64From(f.equipmentID),
			ScheduledDate: null.StringFrom(date),
		})
		require.NoError(t, err)
	}
	f.createCorrective(t)

	may := types.CalendarRange{
		From: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	entries, err := f.svc.GetCalendar(ctx, may)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ТО 2026-05-02", entries[0].Subject)
	assert.Equal(t, "ТО 2026-05-20", entries[1].Subject)

	_, err = f.svc.GetCalendar(ctx, types.CalendarRange{From: may.To, To: may.From})
	requireHTTPCode(t, err, http.StatusBadRequest)
}

func TestMaintenance_HistoryOfMissingRequest(t *testing.T) {
	f := newMaintenanceFixture(t)
	_, err := f.svc.GetHistory(context.Background(), 42)
	requireHTTPCode(t, err, http.StatusNotFound)
}

func TestMaintenance_Dashboard(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	first := f.createCorrective(t)
	f.createCorrective(t)
	_, err := f.svc.AssignRequest(ctx, f.technician, first, f.technician.UserID)
	require.NoError(t, err)

	out, err := f.svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalRequests)
	assert.Equal(t, 2, out.OpenRequestCount)
	assert.Equal(t, 1, out.CriticalEquipmentCount)
	assert.Equal(t, 50, out.TechnicianLoadPct)
	assert.Equal(t, 2, out.CountsByStatus[constants.StatusNew])
}
