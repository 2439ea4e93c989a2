package router

import (
	"github.com/labstack/echo/v4"

	"mahto/internal/adapter/api/handler"
	"mahto/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	users := e.Group("/v1/users")

	// Profile reads degrade to a guest snapshot without a token.
	users.GET("/me", userHandler.GetProfile, authMiddleware.OptionalAuthenticate)
	users.PATCH("/me", userHandler.UpdateProfile, authMiddleware.Authenticate)
}
