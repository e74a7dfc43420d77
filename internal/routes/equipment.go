package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
	"gearguard/pkg/constants"
	"gearguard/pkg/middleware"
)

func runEquipmentRouter(
	secureGroup *echo.Group,
	authMW *middleware.AuthMiddleware,
	ctrl *controllers.EquipmentController,
	importCtrl *controllers.EquipmentImportController,
) {
	secureGroup.GET("/equipment", ctrl.GetEquipments)
	secureGroup.GET("/equipment/:id", ctrl.FindEquipment)
	secureGroup.POST("/equipment", ctrl.CreateEquipment)
	secureGroup.POST("/equipment/import", importCtrl.ImportEquipment, authMW.RequireRole(constants.RoleManager, constants.RoleAdmin))
	secureGroup.PUT("/equipment/:id", ctrl.UpdateEquipment)
	secureGroup.DELETE("/equipment/:id", ctrl.DeleteEquipment)
}
