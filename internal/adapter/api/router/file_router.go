package router

import (
	"github.com/labstack/echo/v4"

	"mahto/internal/adapter/api/handler"
	"mahto/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, fileHandler *handler.FileHandler, authMiddleware *middleware.AuthMiddleware) {
	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)

	files.POST("/listing-image", fileHandler.UploadListingImage)
	files.POST("/avatar", fileHandler.UploadAvatar)
}
