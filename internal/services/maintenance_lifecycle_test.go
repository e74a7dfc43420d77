package services

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/pkg/constants"
	"gearguard/pkg/types"
)

func TestCanTransition(t *testing.T) {
	statuses := []string{constants.StatusNew, constants.StatusInProgress, constants.StatusRepaired, constants.StatusScrap}
	allowed := map[[2]string]bool{
		{constants.StatusNew, constants.StatusInProgress}:      true,
		{constants.StatusNew, constants.StatusScrap}:           true,
		{constants.StatusInProgress, constants.StatusRepaired}: true,
		{constants.StatusInProgress, constants.StatusScrap}:    true,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, allowed[[2]string{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition("unknown", constants.StatusNew))
}

func TestAuthorizeTransition(t *testing.T) {
	assignee := uint64(5)
	testCases := []struct {
		name      string
		principal types.Principal
		assigned  *uint64
		to        string
		wantErr   bool
	}{
		{"исполнитель берёт в работу", types.Principal{UserID: 5, Role: constants.RoleTechnician}, &assignee, constants.StatusInProgress, false},
		{"чужой техник", types.Principal{UserID: 6, Role: constants.RoleTechnician}, &assignee, constants.StatusInProgress, true},
		{"менеджер не завершает за исполнителя", types.Principal{UserID: 1, Role: constants.RoleManager}, &assignee, constants.StatusRepaired, true},
		{"без исполнителя в работу нельзя", types.Principal{UserID: 5, Role: constants.RoleTechnician}, nil, constants.StatusInProgress, true},
		{"менеджер списывает", types.Principal{UserID: 1, Role: constants.RoleManager}, nil, constants.StatusScrap, false},
		{"админ списывает", types.Principal{UserID: 1, Role: constants.RoleAdmin}, &assignee, constants.StatusScrap, false},
		{"исполнитель списывает", types.Principal{UserID: 5, Role: constants.RoleTechnician}, &assignee, constants.StatusScrap, false},
		{"пользователь не списывает", types.Principal{UserID: 9, Role: constants.RoleUser}, &assignee, constants.StatusScrap, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := authorizeTransition(tc.principal, tc.assigned, tc.to)
			if tc.wantErr {
				requireHTTPCode(t, err, http.StatusForbidden)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestComputeDashboard(t *testing.T) {
	eq1, eq2 := uint64(1), uint64(2)
	tech := uint64(10)

	t.Run("пусто", func(t *testing.T) {
		out := ComputeDashboard(nil)
		assert.Zero(t, out.TotalRequests)
		assert.Zero(t, out.TechnicianLoadPct)
		assert.Len(t, out.CountsByStatus, 4)
		for _, n := range out.CountsByStatus {
			assert.Zero(t, n)
		}
	})

	t.Run("агрегаты", func(t *testing.T) {
		rows := []entities.RequestStatusRow{
			{ID: 1, Status: constants.StatusNew, EquipmentID: &eq1},
			{ID: 2, Status: constants.StatusInProgress, EquipmentID: &eq1, AssignedToUserID: &tech},
			{ID: 3, Status: constants.StatusNew, EquipmentID: &eq2, AssignedToUserID: &tech},
			{ID: 4, Status: constants.StatusRepaired, EquipmentID: &eq2, AssignedToUserID: &tech},
			{ID: 5, Status: constants.StatusScrap},
			{ID: 6, Status: constants.StatusNew},
		}
		want := dto.DashboardDTO{
			TotalRequests:          6,
			OpenRequestCount:       4,
			CriticalEquipmentCount: 2,
			TechnicianLoadPct:      50,
			CountsByStatus: map[string]int{
				constants.StatusNew:        3,
				constants.StatusInProgress: 1,
				constants.StatusRepaired:   1,
				constants.StatusScrap:      1,
			},
		}
		if diff := cmp.Diff(want, ComputeDashboard(rows)); diff != "" {
			t.Errorf("ComputeDashboard() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("округление загрузки", func(t *testing.T) {
		rows := []entities.RequestStatusRow{
			{ID: 1, Status: constants.StatusNew, AssignedToUserID: &tech},
			{ID: 2, Status: constants.StatusNew, AssignedToUserID: &tech},
			{ID: 3, Status: constants.StatusNew},
		}
		assert.Equal(t, 67, ComputeDashboard(rows).TechnicianLoadPct)
	})
}
