package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/pkg/types"
)

type ReportServiceInterface interface {
	GetReport(ctx context.Context, filter types.MaintenanceFilter) (*dto.MaintenanceReportDTO, error)
	WriteWorkbook(w io.Writer, report *dto.MaintenanceReportDTO) error
}

type reportService struct {
	maintenanceService MaintenanceServiceInterface
	logger             *zap.Logger
}

func NewReportService(maintenanceService MaintenanceServiceInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

func (s *reportService) GetReport(ctx context.Context, filter types.MaintenanceFilter) (*dto.MaintenanceReportDTO, error) {
	items, err := s.maintenanceService.GetRequests(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := dto.ReportSummaryDTO{
		Total:          len(items),
		CountsByStatus: make(map[string]int),
		GeneratedAt:    formatTime(time.Now()),
	}
	for _, item := range items {
		summary.CountsByStatus[item.Status]++
		if item.DurationHours != nil {
			summary.TotalHours += *item.DurationHours
		}
	}
	return &dto.MaintenanceReportDTO{Items: items, Summary: summary}, nil
}

const reportSheet = "Заявки"

var reportHeaders = []string{
	"ID", "Тип", "Тема", "Статус", "Оборудование", "Рабочий центр", "Команда",
	"Исполнитель", "Автор", "Плановая дата", "Часы работ", "Создана", "Обновлена",
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func reportRow(item dto.MaintenanceRequestDTO) []interface{} {
	var hours interface{} = ""
	if item.DurationHours != nil {
		hours = *item.DurationHours
	}
	return []interface{}{
		item.ID, item.Type, item.Subject, item.Status,
		strOrEmpty(item.EquipmentName), strOrEmpty(item.WorkCenterName), strOrEmpty(item.TeamName),
		strOrEmpty(item.AssignedToName), strOrEmpty(item.CreatedByName), strOrEmpty(item.ScheduledDate),
		hours, item.CreatedAt, item.UpdatedAt,
	}
}

// WriteWorkbook пишет отчёт в xlsx: лист заявок и строка итогов под таблицей.
func (s *reportService) WriteWorkbook(w io.Writer, report *dto.MaintenanceReportDTO) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Не удалось закрыть книгу отчёта", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("переименование листа: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeaders); err != nil {
		return fmt.Errorf("заголовок отчёта: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("стиль заголовка: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reportHeaders))
	_ = f.SetCellStyle(reportSheet, "A1", lastCol+"1", style)

	for i, item := range report.Items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := reportRow(item)
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return fmt.Errorf("строка %d отчёта: %w", i+2, err)
		}
	}

	totalRow := len(report.Items) + 3
	totalCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	totals := []interface{}{"Итого", report.Summary.Total}
	_ = f.SetSheetRow(reportSheet, totalCell, &totals)
	hoursCell, _ := excelize.CoordinatesToCellName(11, totalRow)
	_ = f.SetCellValue(reportSheet, hoursCell, report.Summary.TotalHours)

	_ = f.SetColWidth(reportSheet, "C", "C", 40)
	_ = f.SetColWidth(reportSheet, "E", "I", 22)
	_ = f.SetColWidth(reportSheet, "J", "M", 22)

	return f.Write(w)
}
