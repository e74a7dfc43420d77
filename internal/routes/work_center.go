package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runWorkCenterRouter(secureGroup *echo.Group, ctrl *controllers.WorkCenterController) {
	wc := secureGroup.Group("/work-centers")
	wc.GET("", ctrl.GetWorkCenters)
	wc.POST("", ctrl.CreateWorkCenter)
	wc.GET("/:id", ctrl.FindWorkCenter)
	wc.PUT("/:id", ctrl.UpdateWorkCenter)
	wc.DELETE("/:id", ctrl.DeleteWorkCenter)
	wc.GET("/:id/alternatives", ctrl.ListAlternatives)
	wc.POST("/:id/alternatives", ctrl.AddAlternative)
}
