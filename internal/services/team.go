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
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context) ([]dto.TeamDTO, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDetailsDTO, error)
	CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (uint64, error)
	UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) error
	DeleteTeam(ctx context.Context, id uint64) error
	AddMember(ctx context.Context, teamID, userID uint64) error
	RemoveMember(ctx context.Context, teamID, userID uint64) error
	ListAvailableUsers(ctx context.Context, teamID uint64) ([]dto.ShortUserDTO, error)
	ListAllUsers(ctx context.Context) ([]dto.ShortUserDTO, error)
}

type TeamService struct {
	teamRepository repositories.TeamRepositoryInterface
	userRepository repositories.UserRepositoryInterface
	txManager      repositories.TxManagerInterface
	logger         *zap.Logger
}

func NewTeamService(
	teamRepository repositories.TeamRepositoryInterface,
	userRepository repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) TeamServiceInterface {
	return &TeamService{
		teamRepository: teamRepository,
		userRepository: userRepository,
		txManager:      txManager,
		logger:         logger,
	}
}

const (
	msgTeamNotFound     = "Команда не найдена"
	msgTeamNameTaken    = "Команда с таким названием уже существует"
	msgTeamHasEquipment = "Нельзя удалить команду, назначенную на оборудование"
	msgAlreadyMember    = "Пользователь уже состоит в команде"
	msgMemberNotFound   = "Пользователь не состоит в команде"
)

func (s *TeamService) GetTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	teams, err := s.teamRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TeamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, dto.TeamDTO{
			ID:          t.ID,
			Name:        t.Name,
			MemberCount: t.MemberCount,
			CreatedAt:   formatTime(t.CreatedAt),
		})
	}
	return out, nil
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDetailsDTO, error) {
	team, err := s.teamRepository.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundAs(err, msgTeamNotFound)
	}
	members, err := s.teamRepository.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &dto.TeamDetailsDTO{
		ID:        team.ID,
		Name:      team.Name,
		CreatedAt: formatTime(team.CreatedAt),
		Members:   make([]dto.TeamMemberDTO, 0, len(members)),
	}
	for _, m := range members {
		out.Members = append(out.Members, dto.TeamMemberDTO{
			ID:       m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			Role:     m.Role,
			JoinedAt: formatTime(m.JoinedAt),
		})
	}
	return out, nil
}

func (s *TeamService) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (uint64, error) {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return 0, apperrors.NewValidationError("Название команды обязательно")
	}

	var newID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		taken, err := s.teamRepository.ExistsByName(ctx, tx, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflictError(msgTeamNameTaken)
		}
		newID, err = s.teamRepository.Create(ctx, tx, name)
		return conflictAs(err, msgTeamNameTaken)
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("Команда создана", zap.Uint64("id", newID), zap.String("name", name))
	return newID, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) error {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return apperrors.NewValidationError("Название команды обязательно")
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.teamRepository.FindByID(ctx, tx, id); err != nil {
			return notFoundAs(err, msgTeamNotFound)
		}
		taken, err := s.teamRepository.ExistsByName(ctx, tx, name, id)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflictError(msgTeamNameTaken)
		}
		return conflictAs(notFoundAs(s.teamRepository.Update(ctx, tx, id, name), msgTeamNotFound), msgTeamNameTaken)
	})
}

func (s *TeamService) DeleteTeam(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.teamRepository.FindByID(ctx, tx, id); err != nil {
			return notFoundAs(err, msgTeamNotFound)
		}
		referenced, err := s.teamRepository.IsReferencedByEquipment(ctx, tx, id)
		if err != nil {
			return err
		}
		if referenced {
			return apperrors.NewInvariantError(msgTeamHasEquipment)
		}
		err = s.teamRepository.Delete(ctx, tx, id)
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			return apperrors.NewInvariantError(msgTeamHasEquipment)
		}
		return notFoundAs(err, msgTeamNotFound)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Команда удалена", zap.Uint64("id", id))
	return nil
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.teamRepository.FindByID(ctx, tx, teamID); err != nil {
			return notFoundAs(err, msgTeamNotFound)
		}
		if _, err := s.userRepository.FindByID(ctx, tx, userID); err != nil {
			return notFoundAs(err, "Пользователь не найден")
		}
		member, err := s.teamRepository.IsMember(ctx, tx, teamID, userID)
		if err != nil {
			return err
		}
		if member {
			return apperrors.NewConflictError(msgAlreadyMember)
		}
		return conflictAs(s.teamRepository.AddMember(ctx, tx, teamID, userID), msgAlreadyMember)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Участник добавлен в команду", zap.Uint64("teamID", teamID), zap.Uint64("userID", userID))
	return nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	if err := s.teamRepository.RemoveMember(ctx, nil, teamID, userID); err != nil {
		return notFoundAs(err, msgMemberNotFound)
	}
	s.logger.Info("Участник удалён из команды", zap.Uint64("teamID", teamID), zap.Uint64("userID", userID))
	return nil
}

func (s *TeamService) ListAvailableUsers(ctx context.Context, teamID uint64) ([]dto.ShortUserDTO, error) {
	if _, err := s.teamRepository.FindByID(ctx, nil, teamID); err != nil {
		return nil, notFoundAs(err, msgTeamNotFound)
	}
	users, err := s.userRepository.ListAvailableForTeam(ctx, teamID, constants.AssignableRoles)
	if err != nil {
		return nil, err
	}
	return toShortUsers(users), nil
}

func (s *TeamService) ListAllUsers(ctx context.Context) ([]dto.ShortUserDTO, error) {
	users, err := s.userRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toShortUsers(users), nil
}

func toShortUsers(users []entities.User) []dto.ShortUserDTO {
	out := make([]dto.ShortUserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ShortUserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return out
}
