package services

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gearguard/pkg/types"
)

// workbook собирает книгу с одним листом из переданных строк.
func workbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, addr, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestEquipmentImport(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	teamID, _ := env.teams.Create(ctx, nil, "Механики")
	env.addEquipment("Старый пресс", "SN-OLD", nil)
	svc := NewEquipmentImportService(env.equipment, env.teams, zap.NewNop())

	src := workbook(t, [][]interface{}{
		{"Инвентаризация цеха"},
		{"Наименование", "Серийный номер", "Отдел", "Место установки", "Команда обслуживания", "Дата покупки"},
		{"Токарный станок", "SN-1", "Производство", "Цех 1", "  механики ", "2024-05-01"},
		{"Старый пресс", "SN-OLD", "", "", "", ""},
		{"Фрезер", "SN-2", "", "", "Электрики", ""},
		{"Сверлильный станок", "", "", "", "", ""},
		{"Компрессор", "SN-3", "", "", "", "01.05.2024"},
		{},
		{"Итого", "3"},
	})

	res, err := svc.ImportEquipment(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 5, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, "Электрики")
	assert.Equal(t, 6, res.Errors[1].Row)
	assert.Equal(t, 7, res.Errors[2].Row)

	items, err := env.equipment.List(ctx, types.EquipmentFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	lathe := items[0]
	assert.Equal(t, "SN-1", lathe.SerialNumber)
	require.NotNil(t, lathe.MaintenanceTeamID)
	assert.Equal(t, teamID, *lathe.MaintenanceTeamID)
	require.NotNil(t, lathe.Location)
	assert.Equal(t, "Цех 1", *lathe.Location)
	require.NotNil(t, lathe.PurchaseDate)
	assert.Equal(t, "2024-05-01", lathe.PurchaseDate.Format("2006-01-02"))
	assert.Nil(t, lathe.Category)
}

func TestEquipmentImport_Rejected(t *testing.T) {
	env := newTestEnv()
	svc := NewEquipmentImportService(env.equipment, env.teams, zap.NewNop())

	_, err := svc.ImportEquipment(context.Background(), bytes.NewReader([]byte("не книга")))
	requireHTTPCode(t, err, http.StatusBadRequest)

	src := workbook(t, [][]interface{}{
		{"Название", "Локация"},
		{"Токарный станок", "Цех 1"},
	})
	_, err = svc.ImportEquipment(context.Background(), src)
	requireHTTPCode(t, err, http.StatusBadRequest)
	assert.Empty(t, env.equipment.items)
}
