package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/pkg/service"
	"gearguard/pkg/utils"
	appwebsocket "gearguard/pkg/websocket"
)

// TokenAuthenticator - проверка access-токена из query, заголовков у браузерного websocket нет.
type TokenAuthenticator interface {
	Authenticate(token string) (*service.JwtCustomClaim, error)
}

type WebSocketController struct {
	hub      *appwebsocket.Hub
	auth     TokenAuthenticator
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, auth TokenAuthenticator, allowedOrigins []string, logger *zap.Logger) *WebSocketController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &WebSocketController{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin] || origins["*"]
			},
		},
		logger: logger,
	}
}

func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	claims, err := c.auth.Authenticate(ctx.QueryParam("token"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn, claims.UserID)
	if !c.hub.Join(client) {
		_ = conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("WebSocket: клиент подключен", zap.Uint64("userID", claims.UserID))
	return nil
}
