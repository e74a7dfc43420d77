package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
	"gearguard/pkg/constants"
	"gearguard/pkg/middleware"
)

func runUserRouter(secureGroup *echo.Group, authMW *middleware.AuthMiddleware, ctrl *controllers.UserController) {
	secureGroup.PATCH("/users/:id/role", ctrl.ChangeRole, authMW.RequireRole(constants.RoleAdmin))
}
