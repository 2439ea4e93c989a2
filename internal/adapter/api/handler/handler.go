package handler

import (
	"github.com/labstack/echo/v4"
)

func getUserIDFromContext(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok {
		return uid
	}
	return ""
}
