package routes

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/controllers"
	"gearguard/internal/listeners"
	"gearguard/internal/repositories"
	"gearguard/internal/services"
	"gearguard/pkg/config"
	"gearguard/pkg/eventbus"
	"gearguard/pkg/middleware"
	"gearguard/pkg/service"
	"gearguard/pkg/websocket"
)

type Loggers struct {
	Main        *zap.Logger
	Auth        *zap.Logger
	Equipment   *zap.Logger
	Team        *zap.Logger
	Maintenance *zap.Logger
}

// NopLoggers - для тестов.
func NopLoggers() *Loggers {
	nop := zap.NewNop()
	return &Loggers{Main: nop, Auth: nop, Equipment: nop, Team: nop, Maintenance: nop}
}

// Handlers - все контроллеры API. Собираются в InitRouter, в тестах - вручную поверх фейковых сервисов.
type Handlers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Equipment   *controllers.EquipmentController
	Import      *controllers.EquipmentImportController
	Team        *controllers.TeamController
	WorkCenter  *controllers.WorkCenterController
	Maintenance *controllers.MaintenanceController
	Note        *controllers.NoteController
	Report      *controllers.ReportController
	WebSocket   *controllers.WebSocketController
	Health      *controllers.HealthController
}

type pgxPinger struct{ pool *pgxpool.Pool }

func (p pgxPinger) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	hub *websocket.Hub,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	txManager := repositories.NewTxManager(dbConn)

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.Auth)
	authMW := middleware.NewAuthMiddleware(jwtSvc, userRepo, loggers.Auth)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	teamRepo := repositories.NewTeamRepository(dbConn, loggers.Team)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Equipment)
	workCenterRepo := repositories.NewWorkCenterRepository(dbConn, loggers.Equipment)
	requestRepo := repositories.NewMaintenanceRequestRepository(dbConn, loggers.Maintenance)
	noteRepo := repositories.NewNoteRepository(dbConn, loggers.Maintenance)
	historyRepo := repositories.NewRequestHistoryRepository(dbConn)

	// --- 2. СЕРВИСЫ ---
	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, services.NewLogResetNotifier(loggers.Auth), loggers.Auth, &cfg.Auth)
	userService := services.NewUserService(userRepo, loggers.Auth)
	equipmentService := services.NewEquipmentService(equipmentRepo, teamRepo, txManager, loggers.Equipment)
	importService := services.NewEquipmentImportService(equipmentRepo, teamRepo, loggers.Equipment)
	teamService := services.NewTeamService(teamRepo, userRepo, txManager, loggers.Team)
	workCenterService := services.NewWorkCenterService(workCenterRepo, txManager, loggers.Equipment)
	maintenanceService := services.NewMaintenanceService(
		requestRepo, equipmentRepo, workCenterRepo, teamRepo, userRepo, historyRepo,
		txManager, bus, loggers.Maintenance,
	)
	noteService := services.NewNoteService(noteRepo, requestRepo, loggers.Maintenance)
	reportService := services.NewReportService(maintenanceService, loggers.Maintenance)
	wsNotificationService := services.NewWebSocketNotificationService(hub, loggers.Main)

	// --- 3. СЛУШАТЕЛИ СОБЫТИЙ ---
	listeners.NewAuditListener(loggers.Maintenance.Named("audit")).Register(bus)
	listeners.NewNotificationListener(wsNotificationService, loggers.Main).Register(bus)

	// --- 4. КОНТРОЛЛЕРЫ И МАРШРУТЫ ---
	handlers := Handlers{
		Auth:        controllers.NewAuthController(authService, loggers.Auth),
		User:        controllers.NewUserController(userService, loggers.Auth),
		Equipment:   controllers.NewEquipmentController(equipmentService, loggers.Equipment),
		Import:      controllers.NewEquipmentImportController(importService, loggers.Equipment),
		Team:        controllers.NewTeamController(teamService, loggers.Team),
		WorkCenter:  controllers.NewWorkCenterController(workCenterService, loggers.Equipment),
		Maintenance: controllers.NewMaintenanceController(maintenanceService, loggers.Maintenance),
		Note:        controllers.NewNoteController(noteService, loggers.Maintenance),
		Report:      controllers.NewReportController(reportService, loggers.Maintenance),
		WebSocket:   controllers.NewWebSocketController(hub, authMW, cfg.Server.AllowedOrigins, loggers.Main),
		Health:      controllers.NewHealthController(pgxPinger{pool: dbConn}, cacheRepo, loggers.Main),
	}
	RegisterRoutes(e, authMW, handlers)

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
}

// RegisterRoutes монтирует все маршруты под /api.
func RegisterRoutes(e *echo.Echo, authMW *middleware.AuthMiddleware, h Handlers) {
	api := e.Group("/api")
	api.GET("/health", h.Health.Check)
	api.GET("/ws", h.WebSocket.ServeWs)

	runAuthRouter(api, authMW, h.Auth)

	secureGroup := api.Group("", authMW.Auth)
	runUserRouter(secureGroup, authMW, h.User)
	runEquipmentRouter(secureGroup, authMW, h.Equipment, h.Import)
	runTeamRouter(secureGroup, h.Team)
	runWorkCenterRouter(secureGroup, h.WorkCenter)
	runMaintenanceRouter(secureGroup, h.Maintenance, h.Note)
	runReportRouter(secureGroup, h.Report)
}
