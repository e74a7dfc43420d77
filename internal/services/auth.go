package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/config"
	"gearguard/pkg/constants"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/service"
	"gearguard/pkg/utils"
)

type AuthServiceInterface interface {
	Signup(ctx context.Context, payload dto.SignupDTO) (*dto.UserPublicDTO, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error)
	RequestPasswordReset(ctx context.Context, payload dto.ForgotPasswordDTO) error
	ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error
	GetUserByID(ctx context.Context, userID uint64) (*dto.UserPublicDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	notifier   PasswordResetNotifierInterface
	logger     *zap.Logger
	cfg        *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	notifier PasswordResetNotifierInterface,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		notifier:   notifier,
		logger:     logger,
		cfg:        cfg,
	}
}

func toUserPublicDTO(u *entities.User) *dto.UserPublicDTO {
	return &dto.UserPublicDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	}
}

func (s *AuthService) Signup(ctx context.Context, payload dto.SignupDTO) (*dto.UserPublicDTO, error) {
	email := strings.ToLower(strings.TrimSpace(payload.Email))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("Пользователь с таким email уже зарегистрирован")
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка хэширования пароля", err, nil)
	}

	user := entities.User{
		Name:     strings.TrimSpace(payload.Name),
		Email:    email,
		Password: hashed,
		Role:     constants.RoleUser,
	}
	id, err := s.userRepo.Create(ctx, nil, user)
	if err != nil {
		// гонка двух регистраций ловится уникальным индексом
		return nil, conflictAs(err, "Пользователь с таким email уже зарегистрирован")
	}
	user.ID = id

	s.logger.Info("Зарегистрирован новый пользователь", zap.Uint64("userID", id))
	return toUserPublicDTO(&user), nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.checkLockout(ctx, user.ID); err != nil {
		return nil, err
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	s.resetLoginAttempts(ctx, user.ID)
	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *entities.User) (*dto.AuthResponseDTO, error) {
	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка генерации токенов", err, nil)
	}
	return &dto.AuthResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *toUserPublicDTO(user),
	}, nil
}

// RefreshTokens выдаёт новую пару и отзывает использованный refresh-токен.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	revokedKey := fmt.Sprintf(constants.CacheKeyRevokedRefresh, claims.ID)
	revoked, err := s.cacheRepo.Exists(ctx, revokedKey)
	if err != nil {
		return nil, fmt.Errorf("проверка отзыва refresh-токена: %w", err)
	}
	if revoked {
		s.logger.Warn("Повторное использование refresh-токена", zap.Uint64("userID", claims.UserID))
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, nil, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}

	ttl := s.jwtService.GetRefreshTokenTTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl > 0 {
		if err := s.cacheRepo.Set(ctx, revokedKey, "1", ttl); err != nil {
			return nil, fmt.Errorf("отзыв refresh-токена: %w", err)
		}
	}

	return s.issueTokens(user)
}

// RequestPasswordReset не сообщает, существует ли email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, payload dto.ForgotPasswordDTO) error {
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	logger := s.logger.With(zap.String("email", email))

	attemptsKey := fmt.Sprintf(constants.CacheKeyResetAttempts, email)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		return fmt.Errorf("счётчик запросов сброса: %w", err)
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts > int64(s.cfg.MaxResetAttempts) {
		logger.Warn("Слишком много запросов сброса пароля")
		return apperrors.NewHttpError(
			http.StatusTooManyRequests,
			fmt.Sprintf("Слишком много попыток. Попробуйте через %.0f минут.", s.cfg.LockoutDuration.Minutes()),
			nil,
			nil,
		)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			logger.Warn("Попытка сброса пароля для несуществующего пользователя")
			return nil
		}
		return err
	}

	resetToken := uuid.New().String()
	if err := s.cacheRepo.Set(ctx, fmt.Sprintf(constants.CacheKeyResetEmail, resetToken), user.ID, s.cfg.ResetTokenTTL); err != nil {
		return apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка при сохранении токена в кэше", err, nil)
	}

	if err := s.notifier.SendPasswordResetEmail(user.Email, resetToken); err != nil {
		logger.Error("Не удалось отправить токен сброса", zap.Uint64("userID", user.ID), zap.Error(err))
		return apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось отправить письмо для сброса пароля", err, nil)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error {
	cacheKey := fmt.Sprintf(constants.CacheKeyResetEmail, payload.Token)
	userIDStr, err := s.cacheRepo.GetDel(ctx, cacheKey)
	if err != nil {
		if errors.Is(err, repositories.ErrCacheMiss) {
			return apperrors.NewHttpError(http.StatusBadRequest, "Неверный или истекший токен сброса пароля", apperrors.ErrBadRequest, nil)
		}
		return err
	}

	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil || userID == 0 {
		return apperrors.NewHttpError(
			http.StatusInternalServerError,
			"Ошибка получения ID пользователя из кэша",
			err,
			map[string]interface{}{"userIDStr": userIDStr},
		)
	}

	hashedPassword, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка хэширования нового пароля", err, nil)
	}

	if err := s.userRepo.UpdatePassword(ctx, nil, userID, hashedPassword); err != nil {
		return notFoundAs(err, "Пользователь не найден")
	}

	s.resetLoginAttempts(ctx, userID)
	s.logger.Info("Пароль для пользователя успешно сброшен", zap.Uint64("userID", userID))
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*dto.UserPublicDTO, error) {
	user, err := s.userRepo.FindByID(ctx, nil, userID)
	if err != nil {
		s.logger.Warn("GetUserByID: не удалось найти пользователя", zap.Uint64("userID", userID), zap.Error(err))
		return nil, notFoundAs(err, "Пользователь не найден")
	}
	return toUserPublicDTO(user), nil
}

func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	locked, err := s.cacheRepo.Exists(ctx, fmt.Sprintf(constants.CacheKeyLockout, userID))
	if err != nil {
		s.logger.Error("Не удалось проверить блокировку", zap.Uint64("userID", userID), zap.Error(err))
		return nil
	}
	if locked {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf(constants.CacheKeyLoginAttempts, userID)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Error("Не удалось увеличить счётчик входов", zap.Uint64("userID", userID), zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		_ = s.cacheRepo.Set(ctx, fmt.Sprintf(constants.CacheKeyLockout, userID), "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
		s.logger.Warn("Аккаунт временно заблокирован", zap.Uint64("userID", userID))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	_ = s.cacheRepo.Del(ctx,
		fmt.Sprintf(constants.CacheKeyLoginAttempts, userID),
		fmt.Sprintf(constants.CacheKeyLockout, userID),
	)
}
