package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/constants"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"
)

type EquipmentImportServiceInterface interface {
	ImportEquipment(ctx context.Context, src io.Reader) (*dto.EquipmentImportResultDTO, error)
}

// EquipmentImportService заводит оборудование из xlsx-выгрузки инвентаризации.
// Строка с уже известным серийным номером пропускается, существующие записи не меняются.
type EquipmentImportService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	teamRepository      repositories.TeamRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentImportService(
	equipmentRepository repositories.EquipmentRepositoryInterface,
	teamRepository repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) EquipmentImportServiceInterface {
	return &EquipmentImportService{
		equipmentRepository: equipmentRepository,
		teamRepository:      teamRepository,
		logger:              logger,
	}
}

const noColumn = -1

// importColumns - индексы колонок шапки. noColumn = колонки нет в файле.
type importColumns struct {
	name, serial, category, department, employee, location, team, purchaseDate int
}

// Ключевые слова заголовков. Сравнение по вхождению без учёта регистра, порядок важен: первое совпадение выигрывает.
var importHeaderKeywords = []struct {
	words []string
	set   func(c *importColumns, idx int)
}{
	{[]string{"серийн", "serial"}, func(c *importColumns, i int) { c.serial = i }},
	{[]string{"команд", "team"}, func(c *importColumns, i int) { c.team = i }},
	{[]string{"дата покупки", "purchase"}, func(c *importColumns, i int) { c.purchaseDate = i }},
	{[]string{"наимен", "название", "name"}, func(c *importColumns, i int) { c.name = i }},
	{[]string{"категор", "category"}, func(c *importColumns, i int) { c.category = i }},
	{[]string{"отдел", "подразд", "department"}, func(c *importColumns, i int) { c.department = i }},
	{[]string{"сотрудник", "ответствен", "employee"}, func(c *importColumns, i int) { c.employee = i }},
	{[]string{"располож", "место", "location"}, func(c *importColumns, i int) { c.location = i }},
}

// detectColumns ищет шапку: первая строка, где нашлись и название, и серийный номер.
func detectColumns(rows [][]string) (importColumns, int, bool) {
	for rIdx, row := range rows {
		cols := importColumns{noColumn, noColumn, noColumn, noColumn, noColumn, noColumn, noColumn, noColumn}
		for cIdx, cell := range row {
			header := strings.ToLower(strings.TrimSpace(cell))
			if header == "" {
				continue
			}
			for _, kw := range importHeaderKeywords {
				if containsAny(header, kw.words) {
					kw.set(&cols, cIdx)
					break
				}
			}
		}
		if cols.name != noColumn && cols.serial != noColumn {
			return cols, rIdx, true
		}
	}
	return importColumns{}, 0, false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(row []string, idx int) *string {
	if v := cell(row, idx); v != "" {
		return &v
	}
	return nil
}

// isSummaryRow - строки итогов в конце выгрузки.
func isSummaryRow(name string) bool {
	v := strings.ToLower(name)
	return strings.HasPrefix(v, "итого") || strings.HasPrefix(v, "всего")
}

func normalizeTeamName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func (s *EquipmentImportService) ImportEquipment(ctx context.Context, src io.Reader) (*dto.EquipmentImportResultDTO, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Файл не является книгой Excel (xlsx)")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidationError("В книге нет листов")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewBadRequestError("Не удалось прочитать первый лист книги")
	}

	cols, headerRow, ok := detectColumns(rows)
	if !ok {
		return nil, apperrors.NewValidationError("Не найдена шапка таблицы: нужны колонки с названием и серийным номером")
	}

	teams, err := s.teamRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	teamIDs := make(map[string]uint64, len(teams))
	for _, t := range teams {
		teamIDs[normalizeTeamName(t.Name)] = t.ID
	}

	result := &dto.EquipmentImportResultDTO{Errors: make([]dto.ImportRowErrorDTO, 0)}
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		name := cell(row, cols.name)
		serial := cell(row, cols.serial)
		if name == "" && serial == "" {
			continue
		}
		if isSummaryRow(name) {
			continue
		}
		if name == "" || serial == "" {
			result.Errors = append(result.Errors, dto.ImportRowErrorDTO{Row: lineNum, Message: "Не заполнено название или серийный номер"})
			continue
		}

		created, err := s.importRow(ctx, row, cols, teamIDs, name, serial)
		switch {
		case err == nil && created:
			result.Created++
		case err == nil:
			result.Skipped++
		default:
			var httpErr *apperrors.HttpError
			var inputErr *apperrors.InvalidInputError
			switch {
			case errors.As(err, &httpErr):
				result.Errors = append(result.Errors, dto.ImportRowErrorDTO{Row: lineNum, Message: httpErr.Message})
			case errors.As(err, &inputErr):
				result.Errors = append(result.Errors, dto.ImportRowErrorDTO{Row: lineNum, Message: inputErr.Message})
			default:
				// сбой хранилища прерывает импорт: уже созданные строки остаются
				return nil, err
			}
		}
	}

	s.logger.Info("Импорт оборудования завершён",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// importRow возвращает false, если оборудование с таким серийным номером уже есть.
func (s *EquipmentImportService) importRow(
	ctx context.Context,
	row []string,
	cols importColumns,
	teamIDs map[string]uint64,
	name, serial string,
) (bool, error) {
	purchaseDate, err := utils.ParseOptionalDate(cell(row, cols.purchaseDate))
	if err != nil {
		return false, err
	}

	var teamID *uint64
	if teamName := cell(row, cols.team); teamName != "" {
		id, ok := teamIDs[normalizeTeamName(teamName)]
		if !ok {
			return false, apperrors.NewNotFoundError(fmt.Sprintf("Команда '%s' не найдена", teamName))
		}
		teamID = &id
	}

	taken, err := s.equipmentRepository.ExistsBySerial(ctx, nil, serial, 0)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}

	_, err = s.equipmentRepository.Create(ctx, nil, entities.Equipment{
		Name:                 name,
		SerialNumber:         serial,
		Category:             optionalCell(row, cols.category),
		Department:           optionalCell(row, cols.department),
		AssignedEmployeeName: optionalCell(row, cols.employee),
		PurchaseDate:         purchaseDate,
		Location:             optionalCell(row, cols.location),
		MaintenanceTeamID:    teamID,
		Status:               constants.EquipmentStatusActive,
	})
	if errors.Is(err, apperrors.ErrConflict) {
		// параллельный импорт успел завести тот же номер
		return false, nil
	}
	return err == nil, err
}
