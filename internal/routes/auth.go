package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
	"gearguard/pkg/middleware"
)

func runAuthRouter(api *echo.Group, authMW *middleware.AuthMiddleware, ctrl *controllers.AuthController) {
	auth := api.Group("/auth")
	auth.POST("/signup", ctrl.Signup)
	auth.POST("/login", ctrl.Login)
	auth.POST("/refresh", ctrl.RefreshToken)
	auth.POST("/forget-password", ctrl.RequestPasswordReset)
	auth.POST("/reset-password", ctrl.ResetPassword)
	auth.GET("/me", ctrl.Me, authMW.Auth)
}
