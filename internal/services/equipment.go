package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/constants"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
	"gearguard/pkg/utils"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.EquipmentFilter) ([]dto.EquipmentDTO, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (uint64, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO, sent map[string]bool) (*dto.EquipmentDTO, error)
	DeleteEquipment(ctx context.Context, id uint64) error
}

type EquipmentService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	teamRepository      repositories.TeamRepositoryInterface
	txManager           repositories.TxManagerInterface
	logger              *zap.Logger
}

func NewEquipmentService(
	equipmentRepository repositories.EquipmentRepositoryInterface,
	teamRepository repositories.TeamRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepository: equipmentRepository,
		teamRepository:      teamRepository,
		txManager:           txManager,
		logger:              logger,
	}
}

const (
	msgEquipmentNotFound    = "Оборудование не найдено"
	msgSerialTaken          = "Оборудование с таким серийным номером уже существует"
	msgMaintenanceNoTeam    = "Команда обслуживания не найдена"
	msgEquipmentHasRequests = "Нельзя удалить оборудование, на которое есть заявки на обслуживание"
)

func equipmentEntityToDTO(e *entities.Equipment, withOpenCount bool) dto.EquipmentDTO {
	out := dto.EquipmentDTO{
		ID:                   e.ID,
		Name:                 e.Name,
		SerialNumber:         e.SerialNumber,
		Category:             e.Category,
		Department:           e.Department,
		AssignedEmployeeName: e.AssignedEmployeeName,
		PurchaseDate:         formatDatePtr(e.PurchaseDate),
		WarrantyEndDate:      formatDatePtr(e.WarrantyEndDate),
		Location:             e.Location,
		MaintenanceTeamID:    e.MaintenanceTeamID,
		TeamName:             e.TeamName,
		Status:               e.Status,
		CreatedAt:            formatTime(e.CreatedAt),
		UpdatedAt:            formatTime(e.UpdatedAt),
	}
	if withOpenCount {
		count := e.OpenRequestCount
		out.OpenRequestCount = &count
	}
	return out
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.EquipmentFilter) ([]dto.EquipmentDTO, error) {
	rows, err := s.equipmentRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EquipmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, equipmentEntityToDTO(&rows[i], false))
	}
	return out, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	e, err := s.equipmentRepository.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, msgEquipmentNotFound)
	}
	out := equipmentEntityToDTO(e, true)
	return &out, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (uint64, error) {
	name := strings.TrimSpace(payload.Name)
	serial := strings.TrimSpace(payload.SerialNumber)
	if name == "" || serial == "" {
		return 0, apperrors.NewValidationError("Название и серийный номер обязательны")
	}

	purchaseDate, err := utils.ParseOptionalDate(payload.PurchaseDate.String)
	if err != nil {
		return 0, err
	}
	warrantyEnd, err := utils.ParseOptionalDate(payload.WarrantyEndDate.String)
	if err != nil {
		return 0, err
	}

	status := constants.EquipmentStatusActive
	if payload.Status.Valid && payload.Status.String != "" {
		status = payload.Status.String
	}

	equipment := entities.Equipment{
		Name:                 name,
		SerialNumber:         serial,
		Category:             payload.Category.Ptr(),
		Department:           payload.Department.Ptr(),
		AssignedEmployeeName: payload.AssignedEmployeeName.Ptr(),
		PurchaseDate:         purchaseDate,
		WarrantyEndDate:      warrantyEnd,
		Location:             payload.Location.Ptr(),
		MaintenanceTeamID:    payload.MaintenanceTeamID.Ptr(),
		Status:               status,
	}

	var newID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		taken, err := s.equipmentRepository.ExistsBySerial(ctx, tx, serial, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflictError(msgSerialTaken)
		}
		if equipment.MaintenanceTeamID != nil {
			if _, err := s.teamRepository.FindByID(ctx, tx, *equipment.MaintenanceTeamID); err != nil {
				return notFoundAs(err, msgMaintenanceNoTeam)
			}
		}
		newID, err = s.equipmentRepository.Create(ctx, tx, equipment)
		return conflictAs(err, msgSerialTaken)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Оборудование успешно создано", zap.Uint64("id", newID), zap.String("serial", serial))
	return newID, nil
}

// Колонки, которые нельзя очистить через PATCH.
var equipmentRequiredColumns = []string{"name", "serial_number", "status"}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO, sent map[string]bool) (*dto.EquipmentDTO, error) {
	columns := utils.ChangedColumns(&payload, sent)
	if len(columns) == 0 {
		return nil, apperrors.NewValidationError("Нет данных для обновления")
	}
	if err := normalizePatch(columns, equipmentRequiredColumns); err != nil {
		return nil, err
	}
	for _, col := range []string{"purchase_date", "warranty_end_date"} {
		if err := patchDateColumn(columns, col); err != nil {
			return nil, err
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.equipmentRepository.FindByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, msgEquipmentNotFound)
		}

		if serial, ok := columns["serial_number"].(string); ok && serial != current.SerialNumber {
			taken, err := s.equipmentRepository.ExistsBySerial(ctx, tx, serial, id)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.NewConflictError(msgSerialTaken)
			}
		}

		if teamID, ok := columnUint64(columns, "maintenance_team_id"); ok {
			if _, err := s.teamRepository.FindByID(ctx, tx, teamID); err != nil {
				return notFoundAs(err, msgMaintenanceNoTeam)
			}
		}

		return conflictAs(s.equipmentRepository.Update(ctx, tx, id, columns), msgSerialTaken)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Оборудование обновлено", zap.Uint64("id", id), zap.Int("columns", len(columns)))
	return s.FindEquipment(ctx, id)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.equipmentRepository.FindByID(ctx, tx, id); err != nil {
			return notFoundAs(err, msgEquipmentNotFound)
		}
		referenced, err := s.equipmentRepository.IsReferencedByRequests(ctx, tx, id)
		if err != nil {
			return err
		}
		if referenced {
			return apperrors.NewInvariantError(msgEquipmentHasRequests)
		}
		err = s.equipmentRepository.Delete(ctx, tx, id)
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			// заявку успели создать между проверкой и удалением
			return apperrors.NewInvariantError(msgEquipmentHasRequests)
		}
		return notFoundAs(err, msgEquipmentNotFound)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Оборудование удалено", zap.Uint64("id", id))
	return nil
}
