package router

import (
	"github.com/labstack/echo/v4"

	"mahto/internal/adapter/api/handler"
	"mahto/internal/adapter/api/middleware"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Property      *handler.PropertyHandler
	SavedProperty *handler.SavedPropertyHandler
	Chat          *handler.ChatHandler
	File          *handler.FileHandler
	WebSocket     *handler.WebSocketHandler
	Health        *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	SetupAuthRouter(e, h.Auth, authMiddleware)
	SetupUserRouter(e, h.User, authMiddleware)
	SetupPropertyRouter(e, h.Property, h.SavedProperty, authMiddleware)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupFileRouter(e, h.File, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket, authMiddleware)
	SetupHealthRouter(e, h.Health)
}
