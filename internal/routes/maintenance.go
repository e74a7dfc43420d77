package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runMaintenanceRouter(secureGroup *echo.Group, ctrl *controllers.MaintenanceController, notes *controllers.NoteController) {
	m := secureGroup.Group("/maintenance")
	m.GET("", ctrl.GetRequests)
	m.POST("", ctrl.CreateRequest)
	m.GET("/calendar", ctrl.GetCalendar)
	m.GET("/dashboard", ctrl.GetDashboard)
	m.GET("/:id", ctrl.FindRequest)
	m.PATCH("/:id/assign", ctrl.AssignRequest)
	m.PATCH("/:id/status", ctrl.ChangeStatus)
	m.GET("/:id/history", ctrl.GetHistory)
	m.GET("/:id/notes", notes.ListNotes)
	m.POST("/:id/notes", notes.AddNote)
}
