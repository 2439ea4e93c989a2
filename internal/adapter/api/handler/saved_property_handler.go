package handler

import (
	"github.com/labstack/echo/v4"

	"mahto/internal/usecase"
	"mahto/pkg/response"
)

type SavedPropertyHandler struct {
	savedPropertyUseCase *usecase.SavedPropertyUseCase
}

func NewSavedPropertyHandler(savedPropertyUseCase *usecase.SavedPropertyUseCase) *SavedPropertyHandler {
	return &SavedPropertyHandler{
		savedPropertyUseCase: savedPropertyUseCase,
	}
}

func (h *SavedPropertyHandler) ToggleSaved(c echo.Context) error {
	saved, err := h.savedPropertyUseCase.ToggleSaved(c.Request().Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"saved": saved,
	})
}

func (h *SavedPropertyHandler) ListSaved(c echo.Context) error {
	properties, err := h.savedPropertyUseCase.ListSaved(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, properties)
}
