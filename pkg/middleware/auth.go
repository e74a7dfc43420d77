package middleware

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/service"
	"gearguard/pkg/types"
	"gearguard/pkg/utils"
)

// RoleLookup отдаёт текущую роль пользователя из хранилища.
type RoleLookup interface {
	FindRole(ctx context.Context, userID uint64) (string, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	roles      RoleLookup
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, roles RoleLookup, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		roles:      roles,
		logger:     logger,
	}
}

// Auth проверяет access-токен и кладёт пользователя в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.Authenticate(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		// Роль берём из базы, а не из токена: смена роли действует сразу, а не после истечения токена.
		role, err := m.roles.FindRole(c.Request().Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				m.logger.Warn("AuthMiddleware: пользователь из токена не найден", zap.Uint64("userID", claims.UserID))
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := utils.WithPrincipal(c.Request().Context(), types.Principal{UserID: claims.UserID, Role: role})
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// Authenticate проверяет access-токен без HTTP-обвязки (нужно для websocket, где токен в query).
func (m *AuthMiddleware) Authenticate(token string) (*service.JwtCustomClaim, error) {
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotAccess
	}
	return claims, nil
}

// RequireRole пропускает только пользователей с одной из перечисленных ролей.
// Ставится после Auth.
func (m *AuthMiddleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := utils.GetPrincipalFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			if !slices.Contains(roles, principal.Role) {
				m.logger.Warn("AuthMiddleware: недостаточно прав",
					zap.Uint64("userID", principal.UserID),
					zap.String("role", principal.Role),
					zap.Strings("required", roles),
				)
				return utils.ErrorResponse(c, apperrors.NewForbiddenError("Недостаточно прав для этого действия"), m.logger)
			}
			return next(c)
		}
	}
}
