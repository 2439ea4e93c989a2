package router

import (
	"github.com/labstack/echo/v4"

	"mahto/internal/adapter/api/handler"
	"mahto/internal/adapter/api/middleware"
)

func SetupPropertyRouter(e *echo.Echo, propertyHandler *handler.PropertyHandler, savedPropertyHandler *handler.SavedPropertyHandler, authMiddleware *middleware.AuthMiddleware) {
	properties := e.Group("/v1/properties")

	// Browsing is public
	properties.GET("", propertyHandler.ListProperties)
	properties.GET("/:id", propertyHandler.GetProperty)

	properties.POST("", propertyHandler.CreateProperty, authMiddleware.Authenticate)
	properties.PUT("/:id", propertyHandler.UpdateProperty, authMiddleware.Authenticate)
	properties.DELETE("/:id", propertyHandler.DeleteProperty, authMiddleware.Authenticate)
	properties.POST("/:id/save", savedPropertyHandler.ToggleSaved, authMiddleware.Authenticate)

	mine := e.Group("/v1/my-properties")
	mine.Use(authMiddleware.Authenticate)
	mine.GET("", propertyHandler.ListMyProperties)

	saved := e.Group("/v1/saved-properties")
	saved.Use(authMiddleware.Authenticate)
	saved.GET("", savedPropertyHandler.ListSaved)
}
