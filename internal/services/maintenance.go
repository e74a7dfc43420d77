package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/events"
	"gearguard/internal/repositories"
	"gearguard/pkg/constants"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
	"gearguard/pkg/utils"
)

type MaintenanceServiceInterface interface {
	GetRequests(ctx context.Context, filter types.MaintenanceFilter) ([]dto.MaintenanceRequestDTO, error)
	FindRequest(ctx context.Context, id uint64) (*dto.MaintenanceRequestDTO, error)
	CreateRequest(ctx context.Context, principal types.Principal, payload dto.CreateMaintenanceRequestDTO) (uint64, error)
	AssignRequest(ctx context.Context, principal types.Principal, id, userID uint64) (*dto.MaintenanceRequestDTO, error)
	ChangeStatus(ctx context.Context, principal types.Principal, id uint64, payload dto.ChangeStatusDTO) (*dto.MaintenanceRequestDTO, error)
	GetCalendar(ctx context.Context, rng types.CalendarRange) ([]dto.CalendarEntryDTO, error)
	GetHistory(ctx context.Context, id uint64) ([]dto.RequestHistoryDTO, error)
	GetDashboard(ctx context.Context) (*dto.DashboardDTO, error)
}

type MaintenanceService struct {
	requestRepository    repositories.MaintenanceRequestRepositoryInterface
	equipmentRepository  repositories.EquipmentRepositoryInterface
	workCenterRepository repositories.WorkCenterRepositoryInterface
	teamRepository       repositories.TeamRepositoryInterface
	userRepository       repositories.UserRepositoryInterface
	historyRepository    repositories.RequestHistoryRepositoryInterface
	txManager            repositories.TxManagerInterface
	publisher            EventPublisher
	logger               *zap.Logger
}

func NewMaintenanceService(
	requestRepository repositories.MaintenanceRequestRepositoryInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	workCenterRepository repositories.WorkCenterRepositoryInterface,
	teamRepository repositories.TeamRepositoryInterface,
	userRepository repositories.UserRepositoryInterface,
	historyRepository repositories.RequestHistoryRepositoryInterface,
	txManager repositories.TxManagerInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) MaintenanceServiceInterface {
	return &MaintenanceService{
		requestRepository:    requestRepository,
		equipmentRepository:  equipmentRepository,
		workCenterRepository: workCenterRepository,
		teamRepository:       teamRepository,
		userRepository:       userRepository,
		historyRepository:    historyRepository,
		txManager:            txManager,
		publisher:            publisher,
		logger:               logger,
	}
}

const msgRequestNotFound = "Заявка на обслуживание не найдена"

// maxDurationHours - предел колонки NUMERIC(10,2).
const maxDurationHours = 99999999

func requestEntityToDTO(r *entities.MaintenanceRequest) dto.MaintenanceRequestDTO {
	return dto.MaintenanceRequestDTO{
		ID:               r.ID,
		Type:             r.Type,
		Subject:          r.Subject,
		Description:      r.Description,
		EquipmentID:      r.EquipmentID,
		EquipmentName:    r.EquipmentName,
		WorkCenterID:     r.WorkCenterID,
		WorkCenterName:   r.WorkCenterName,
		TeamID:           r.TeamID,
		TeamName:         r.TeamName,
		ScheduledDate:    formatTimePtr(r.ScheduledDate),
		Status:           r.Status,
		AssignedToUserID: r.AssignedToUserID,
		AssignedToName:   r.AssignedToName,
		DurationHours:    r.DurationHours,
		CreatedByUserID:  r.CreatedByUserID,
		CreatedByName:    r.CreatedByName,
		CreatedAt:        formatTime(r.CreatedAt),
		UpdatedAt:        formatTime(r.UpdatedAt),
	}
}

func (s *MaintenanceService) GetRequests(ctx context.Context, filter types.MaintenanceFilter) ([]dto.MaintenanceRequestDTO, error) {
	rows, err := s.requestRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaintenanceRequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, requestEntityToDTO(&rows[i]))
	}
	return out, nil
}

func (s *MaintenanceService) FindRequest(ctx context.Context, id uint64) (*dto.MaintenanceRequestDTO, error) {
	r, err := s.requestRepository.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, msgRequestNotFound)
	}
	out := requestEntityToDTO(r)
	return &out, nil
}

func (s *MaintenanceService) CreateRequest(ctx context.Context, principal types.Principal, payload dto.CreateMaintenanceRequestDTO) (uint64, error) {
	subject := strings.TrimSpace(payload.Subject)
	if subject == "" {
		return 0, apperrors.NewValidationError("Тема заявки обязательна")
	}
	if payload.Type != constants.MaintenanceCorrective && payload.Type != constants.MaintenancePreventive {
		return 0, apperrors.NewValidationError("Тип заявки должен быть corrective или preventive")
	}
	hasEquipment, hasWorkCenter := payload.EquipmentID.Valid, payload.WorkCenterID.Valid
	if hasEquipment == hasWorkCenter {
		return 0, apperrors.NewValidationError("Укажите ровно одно: оборудование или рабочий центр")
	}
	if payload.CreatedByUserID.Valid && payload.CreatedByUserID.Uint64 != principal.UserID {
		return 0, apperrors.NewForbiddenError("Нельзя создать заявку от имени другого пользователя")
	}

	var scheduled *time.Time
	if raw := strings.TrimSpace(payload.ScheduledDate.String); raw != "" {
		t, err := utils.ParseDateTime(raw)
		if err != nil {
			return 0, err
		}
		scheduled = &t
	}
	if payload.Type == constants.MaintenancePreventive && scheduled == nil {
		return 0, apperrors.NewValidationError("Для планового обслуживания нужна дата")
	}

	req := entities.MaintenanceRequest{
		Type:            payload.Type,
		Subject:         subject,
		Description:     payload.Description.Ptr(),
		EquipmentID:     payload.EquipmentID.Ptr(),
		WorkCenterID:    payload.WorkCenterID.Ptr(),
		TeamID:          payload.TeamID.Ptr(),
		ScheduledDate:   scheduled,
		Status:          constants.StatusNew,
		CreatedByUserID: principal.UserID,
	}

	var newID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if req.EquipmentID != nil {
			equipment, err := s.equipmentRepository.FindByID(ctx, tx, *req.EquipmentID)
			if err != nil {
				return notFoundAs(err, msgEquipmentNotFound)
			}
			if req.TeamID == nil {
				req.TeamID = equipment.MaintenanceTeamID
			}
		}
		if req.WorkCenterID != nil {
			if _, err := s.workCenterRepository.FindByID(ctx, tx, *req.WorkCenterID); err != nil {
				return notFoundAs(err, msgWorkCenterNotFound)
			}
		}
		if req.TeamID != nil {
			if _, err := s.teamRepository.FindByID(ctx, tx, *req.TeamID); err != nil {
				return notFoundAs(err, msgTeamNotFound)
			}
		}

		var err error
		newID, err = s.requestRepository.Create(ctx, tx, req)
		if err != nil {
			return err
		}
		return s.writeHistory(ctx, tx, newID, principal.UserID, constants.HistoryCreated, nil, utils.ToPtr(constants.StatusNew))
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Заявка на обслуживание создана",
		zap.Uint64("id", newID),
		zap.String("type", req.Type),
		zap.Uint64("createdBy", principal.UserID),
	)
	s.publish(ctx, events.MaintenanceRequestChangedEvent{
		RequestID:   newID,
		Action:      events.ActionCreated,
		NewStatus:   constants.StatusNew,
		ActorUserID: principal.UserID,
	})
	return newID, nil
}

func (s *MaintenanceService) AssignRequest(ctx context.Context, principal types.Principal, id, userID uint64) (*dto.MaintenanceRequestDTO, error) {
	var (
		changed bool
		status  string
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.requestRepository.LockByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, msgRequestNotFound)
		}
		status = current.Status
		if constants.IsFinalStatus(current.Status) {
			return apperrors.NewConflictError("Нельзя назначить исполнителя на закрытую заявку")
		}
		if _, err := s.userRepository.FindByID(ctx, tx, userID); err != nil {
			return notFoundAs(err, "Пользователь не найден")
		}
		if principal.UserID != userID && !principal.IsManager() {
			return apperrors.NewForbiddenError("Назначать других исполнителей может только менеджер")
		}
		if current.AssignedToUserID != nil {
			if *current.AssignedToUserID == userID {
				return nil
			}
			return apperrors.NewConflictError("Заявка уже назначена на другого исполнителя")
		}

		if err := s.requestRepository.UpdateAssignee(ctx, tx, id, userID); err != nil {
			return notFoundAs(err, msgRequestNotFound)
		}
		changed = true
		return s.writeHistory(ctx, tx, id, principal.UserID, constants.HistoryAssigned, nil, utils.ToPtr(strconv.FormatUint(userID, 10)))
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("Исполнитель назначен", zap.Uint64("id", id), zap.Uint64("assignee", userID), zap.Uint64("actor", principal.UserID))
		s.publish(ctx, events.MaintenanceRequestChangedEvent{
			RequestID:        id,
			Action:           events.ActionAssigned,
			OldStatus:        status,
			NewStatus:        status,
			AssignedToUserID: &userID,
			ActorUserID:      principal.UserID,
		})
	}
	return s.FindRequest(ctx, id)
}

func (s *MaintenanceService) ChangeStatus(ctx context.Context, principal types.Principal, id uint64, payload dto.ChangeStatusDTO) (*dto.MaintenanceRequestDTO, error) {
	target := payload.Status
	if !constants.IsKnownStatus(target) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Неизвестный статус '%s'", target))
	}

	var duration *float64
	if target == constants.StatusRepaired {
		if payload.DurationHours == nil || *payload.DurationHours <= 0 {
			return nil, apperrors.NewValidationError("Длительность работ должна быть больше нуля")
		}
		if *payload.DurationHours > maxDurationHours {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Длительность работ не может превышать %d ч", maxDurationHours))
		}
		duration = payload.DurationHours
	} else if payload.DurationHours != nil {
		return nil, apperrors.NewValidationError("Длительность указывается только при завершении работ")
	}

	var (
		oldStatus string
		assignee  *uint64
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.requestRepository.LockByID(ctx, tx, id)
		if err != nil {
			return notFoundAs(err, msgRequestNotFound)
		}
		oldStatus, assignee = current.Status, current.AssignedToUserID

		if err := checkTransition(current.Status, target); err != nil {
			return err
		}
		if err := authorizeTransition(principal, current.AssignedToUserID, target); err != nil {
			return err
		}
		if err := s.requestRepository.UpdateStatus(ctx, tx, id, target, duration); err != nil {
			return notFoundAs(err, msgRequestNotFound)
		}
		return s.writeHistory(ctx, tx, id, principal.UserID, constants.HistoryStatusChange, &oldStatus, &target)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Статус заявки изменён",
		zap.Uint64("id", id),
		zap.String("from", oldStatus),
		zap.String("to", target),
		zap.Uint64("actor", principal.UserID),
	)
	s.publish(ctx, events.MaintenanceRequestChangedEvent{
		RequestID:        id,
		Action:           events.ActionStatusChanged,
		OldStatus:        oldStatus,
		NewStatus:        target,
		AssignedToUserID: assignee,
		ActorUserID:      principal.UserID,
	})
	return s.FindRequest(ctx, id)
}

func (s *MaintenanceService) GetCalendar(ctx context.Context, rng types.CalendarRange) ([]dto.CalendarEntryDTO, error) {
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return nil, apperrors.NewValidationError("Конец периода раньше начала")
	}
	rows, err := s.requestRepository.ListForCalendar(ctx, rng)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CalendarEntryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CalendarEntryDTO{
			ID:             r.ID,
			Subject:        r.Subject,
			Type:           r.Type,
			Status:         r.Status,
			EquipmentName:  r.EquipmentName,
			WorkCenterName: r.WorkCenterName,
			ScheduledDate:  formatTime(r.ScheduledDate),
		})
	}
	return out, nil
}

func (s *MaintenanceService) GetHistory(ctx context.Context, id uint64) ([]dto.RequestHistoryDTO, error) {
	if _, err := s.requestRepository.FindByID(ctx, nil, id); err != nil {
		return nil, notFoundAs(err, msgRequestNotFound)
	}
	rows, err := s.historyRepository.FindByRequestID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestHistoryDTO, 0, len(rows))
	for _, h := range rows {
		out = append(out, dto.RequestHistoryDTO{
			ID:        h.ID,
			EventType: h.EventType,
			OldValue:  h.OldValue,
			NewValue:  h.NewValue,
			UserID:    h.UserID,
			UserName:  h.UserName,
			CreatedAt: formatTime(h.CreatedAt),
		})
	}
	return out, nil
}

// GetDashboard считает агрегаты заново на каждый вызов.
func (s *MaintenanceService) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	rows, err := s.requestRepository.ListStatusRows(ctx)
	if err != nil {
		return nil, err
	}
	out := ComputeDashboard(rows)
	return &out, nil
}

func (s *MaintenanceService) writeHistory(ctx context.Context, tx pgx.Tx, requestID, userID uint64, eventType string, oldValue, newValue *string) error {
	return s.historyRepository.CreateInTx(ctx, tx, entities.RequestHistory{
		RequestID: requestID,
		UserID:    &userID,
		EventType: eventType,
		OldValue:  oldValue,
		NewValue:  newValue,
	})
}

// publish вызывается только после успешного коммита.
func (s *MaintenanceService) publish(ctx context.Context, event events.MaintenanceRequestChangedEvent) {
	if s.publisher == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.OccurredAt = time.Now().UTC()
	s.publisher.Publish(ctx, event)
}
