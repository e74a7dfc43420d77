package services

import (
	"context"

	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/repositories"
	"gearguard/pkg/constants"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

type UserServiceInterface interface {
	ChangeRole(ctx context.Context, principal types.Principal, userID uint64, role string) (*dto.UserPublicDTO, error)
}

type UserService struct {
	userRepository repositories.UserRepositoryInterface
	logger         *zap.Logger
}

func NewUserService(userRepository repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepository: userRepository, logger: logger}
}

// ChangeRole - роль меняет только администратор, и не себе: так в системе не останется без админа.
func (s *UserService) ChangeRole(ctx context.Context, principal types.Principal, userID uint64, role string) (*dto.UserPublicDTO, error) {
	if principal.Role != constants.RoleAdmin {
		return nil, apperrors.NewForbiddenError("Менять роли может только администратор")
	}
	if principal.UserID == userID {
		return nil, apperrors.NewForbiddenError("Нельзя изменить собственную роль")
	}

	if err := s.userRepository.UpdateRole(ctx, nil, userID, role); err != nil {
		return nil, notFoundAs(err, "Пользователь не найден")
	}
	user, err := s.userRepository.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, notFoundAs(err, "Пользователь не найден")
	}

	s.logger.Info("Роль пользователя изменена",
		zap.Uint64("userID", userID),
		zap.String("role", role),
		zap.Uint64("actor", principal.UserID),
	)
	return toUserPublicDTO(user), nil
}
