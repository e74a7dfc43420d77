package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runTeamRouter(secureGroup *echo.Group, ctrl *controllers.TeamController) {
	teams := secureGroup.Group("/teams")
	// статический путь регистрируется рядом с /:id, echo отдаёт ему приоритет
	teams.GET("/users/all", ctrl.ListAllUsers)
	teams.GET("", ctrl.GetTeams)
	teams.POST("", ctrl.CreateTeam)
	teams.GET("/:id", ctrl.FindTeam)
	teams.PUT("/:id", ctrl.UpdateTeam)
	teams.DELETE("/:id", ctrl.DeleteTeam)
	teams.POST("/:id/members", ctrl.AddMember)
	teams.DELETE("/:id/members/:userId", ctrl.RemoveMember)
	teams.GET("/:id/available-users", ctrl.ListAvailableUsers)
}
