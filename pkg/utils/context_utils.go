package utils

import (
	"context"

	"gearguard/pkg/contextkeys"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

// GetPrincipalFromCtx достаёт пользователя, положенного в контекст middleware авторизации.
func GetPrincipalFromCtx(ctx context.Context) (types.Principal, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return types.Principal{}, apperrors.ErrUserIDNotFoundInContext
	}
	role, _ := ctx.Value(contextkeys.UserRoleKey).(string)
	return types.Principal{UserID: userID, Role: role}, nil
}

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	p, err := GetPrincipalFromCtx(ctx)
	if err != nil {
		return 0, err
	}
	return p.UserID, nil
}

// WithPrincipal используется middleware и тестами.
func WithPrincipal(ctx context.Context, p types.Principal) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, p.UserID)
	return context.WithValue(ctx, contextkeys.UserRoleKey, p.Role)
}
