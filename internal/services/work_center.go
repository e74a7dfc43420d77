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
	"gearguard/pkg/utils"
)

type WorkCenterServiceInterface interface {
	GetWorkCenters(ctx context.Context) ([]dto.WorkCenterDTO, error)
	FindWorkCenter(ctx context.Context, id uint64) (*dto.WorkCenterDTO, error)
	CreateWorkCenter(ctx context.Context, payload dto.CreateWorkCenterDTO) (uint64, error)
	UpdateWorkCenter(ctx context.Context, id uint64, payload dto.UpdateWorkCenterDTO, sent map[string]bool) (*dto.WorkCenterDTO, error)
	DeleteWorkCenter(ctx context.Context, id uint64) error
	ListAlternatives(ctx context.Context, id uint64) ([]dto.WorkCenterAlternativeDTO, error)
	AddAlternative(ctx context.Context, id, alternativeID uint64) error
}

type WorkCenterService struct {
	workCenterRepository repositories.WorkCenterRepositoryInterface
	txManager            repositories.TxManagerInterface
	logger               *zap.Logger
}

func NewWorkCenterService(
	workCenterRepository repositories.WorkCenterRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) WorkCenterServiceInterface {
	return &WorkCenterService{
		workCenterRepository: workCenterRepository,
		txManager:            txManager,
		logger:               logger,
	}
}

const (
	msgWorkCenterNotFound    = "Рабочий центр не найден"
	msgWorkCenterCodeTaken   = "Рабочий центр с таким кодом уже существует"
	msgWorkCenterHasRequests = "Нельзя удалить рабочий центр, на который есть заявки на обслуживание"
)

var workCenterRequiredColumns = []string{"name", "status", "cost_per_hour", "capacity_per_hour", "time_efficiency_pct", "oee_target_pct"}

func workCenterEntityToDTO(wc *entities.WorkCenter) dto.WorkCenterDTO {
	return dto.WorkCenterDTO{
		ID:                wc.ID,
		Name:              wc.Name,
		Code:              wc.Code,
		Tag:               wc.Tag,
		CostPerHour:       wc.CostPerHour,
		CapacityPerHour:   wc.CapacityPerHour,
		TimeEfficiencyPct: wc.TimeEfficiencyPct,
		OEETargetPct:      wc.OEETargetPct,
		Status:            wc.Status,
		CreatedAt:         formatTime(wc.CreatedAt),
		UpdatedAt:         formatTime(wc.UpdatedAt),
	}
}

func (s *WorkCenterService) GetWorkCenters(ctx context.Context) ([]dto.WorkCenterDTO, error) {
	rows, err := s.workCenterRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkCenterDTO, 0, len(rows))
	for i := range rows {
		out = append(out, workCenterEntityToDTO(&rows[i]))
	}
	return out, nil
}

func (s *WorkCenterService) FindWorkCenter(ctx context.Context, id uint64) (*dto.WorkCenterDTO, error) {
	wc, err := s.workCenterRepository.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, msgWorkCenterNotFound)
	}
	out := workCenterEntityToDTO(wc)
	return &out, nil
}

func (s *WorkCenterService) CreateWorkCenter(ctx context.Context, payload dto.CreateWorkCenterDTO) (uint64, error) {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return 0, apperrors.NewValidationError("Название рабочего центра обязательно")
	}

	wc := entities.WorkCenter{
		Name:              name,
		Tag:               payload.Tag.Ptr(),
		CostPerHour:       payload.CostPerHour.Float64,
		CapacityPerHour:   payload.CapacityPerHour.Float64,
		TimeEfficiencyPct: 100,
		OEETargetPct:      payload.OEETargetPct.Float64,
		Status:            constants.WorkCenterStatusActive,
	}
	if payload.TimeEfficiencyPct.Valid {
		wc.TimeEfficiencyPct = payload.TimeEfficiencyPct.Float64
	}
	if payload.Status.Valid && payload.Status.String != "" {
		wc.Status = payload.Status.String
	}
	if code := strings.TrimSpace(payload.Code.String); code != "" {
		wc.Code = utils.ToPtr(code)
	}

	var newID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if wc.Code != nil {
			taken, err := s.workCenterRepository.ExistsByCode(ctx, tx, *wc.Code, 0)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.NewConflictError(msgWorkCenterCodeTaken)
			}
		}
		var err error
		newID, err = s.workCenterRepository.Create(ctx, tx, wc)
		return conflictAs(err, msgWorkCenterCodeTaken)
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("Рабочий центр создан", zap.Uint64("id", newID))
	return newID, nil
}

func (s *WorkCenterService) UpdateWorkCenter(ctx context.Context, id uint64, payload dto.UpdateWorkCenterDTO, sent map[string]bool) (*dto.WorkCenterDTO, error) {
	columns := utils.ChangedColumns(&payload, sent)
	if len(columns) == 0 {
		return nil, apperrors.NewValidationError("Нет данных для обновления")
	}
	if err := normalizePatch(columns, workCenterRequiredColumns); err != nil {
		return nil, err
	}
	// пустой код = без кода, иначе частичный уникальный индекс считал бы "" значением
	if code, ok := columns["code"].(string); ok && code == "" {
		columns["code"] = nil
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.workCenterRepository.FindByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, msgWorkCenterNotFound)
		}
		if code, ok := columns["code"].(string); ok && (current.Code == nil || *current.Code != code) {
			taken, err := s.workCenterRepository.ExistsByCode(ctx, tx, code, id)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.NewConflictError(msgWorkCenterCodeTaken)
			}
		}
		return conflictAs(s.workCenterRepository.Update(ctx, tx, id, columns), msgWorkCenterCodeTaken)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Рабочий центр обновлён", zap.Uint64("id", id))
	return s.FindWorkCenter(ctx, id)
}

func (s *WorkCenterService) DeleteWorkCenter(ctx context.Context, id uint64) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.workCenterRepository.FindByID(ctx, tx, id); err != nil {
			return notFoundAs(err, msgWorkCenterNotFound)
		}
		referenced, err := s.workCenterRepository.IsReferencedByRequests(ctx, tx, id)
		if err != nil {
			return err
		}
		if referenced {
			return apperrors.NewInvariantError(msgWorkCenterHasRequests)
		}
		err = s.workCenterRepository.Delete(ctx, tx, id)
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			return apperrors.NewInvariantError(msgWorkCenterHasRequests)
		}
		return notFoundAs(err, msgWorkCenterNotFound)
	})
}

func (s *WorkCenterService) ListAlternatives(ctx context.Context, id uint64) ([]dto.WorkCenterAlternativeDTO, error) {
	if _, err := s.workCenterRepository.FindByID(ctx, nil, id); err != nil {
		return nil, notFoundAs(err, msgWorkCenterNotFound)
	}
	rows, err := s.workCenterRepository.ListAlternatives(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkCenterAlternativeDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.WorkCenterAlternativeDTO{ID: r.ID, Name: r.Name, Code: r.Code, Status: r.Status})
	}
	return out, nil
}

func (s *WorkCenterService) AddAlternative(ctx context.Context, id, alternativeID uint64) error {
	if id == alternativeID {
		return apperrors.NewValidationError("Рабочий центр не может быть альтернативой самому себе")
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, wcID := range []uint64{id, alternativeID} {
			if _, err := s.workCenterRepository.FindByID(ctx, tx, wcID); err != nil {
				return notFoundAs(err, msgWorkCenterNotFound)
			}
		}
		linked, err := s.workCenterRepository.AlternativeExists(ctx, tx, id, alternativeID)
		if err != nil {
			return err
		}
		if linked {
			return apperrors.NewConflictError("Альтернатива уже добавлена")
		}
		return conflictAs(s.workCenterRepository.AddAlternative(ctx, tx, id, alternativeID), "Альтернатива уже добавлена")
	})
}
