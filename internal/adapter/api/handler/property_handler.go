package handler

import (
	"github.com/labstack/echo/v4"

	"mahto/internal/domain/entity"
	"mahto/internal/usecase"
	"mahto/pkg/errors"
	"mahto/pkg/response"
	"mahto/pkg/utils"
)

type PropertyHandler struct {
	propertyUseCase *usecase.PropertyUseCase
}

func NewPropertyHandler(propertyUseCase *usecase.PropertyUseCase) *PropertyHandler {
	return &PropertyHandler{
		propertyUseCase: propertyUseCase,
	}
}

type propertyRequest struct {
	Title       string   `json:"title" validate:"required,min=3"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Location    string   `json:"location" validate:"required"`
	State       string   `json:"state"`
	District    string   `json:"district"`
	Type        string   `json:"type" validate:"required"`
	ListingType string   `json:"listing_type" validate:"required"`
	Images      []string `json:"images" validate:"max=5,dive,url"`
	Bedrooms    int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int      `json:"bathrooms" validate:"gte=0"`
	Area        string   `json:"area"`
}

func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	var req propertyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	property, err := h.propertyUseCase.CreateProperty(c.Request().Context(), getUserIDFromContext(c), usecase.CreatePropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		State:       req.State,
		District:    req.District,
		Type:        entity.PropertyType(req.Type),
		ListingType: entity.ListingType(req.ListingType),
		Images:      req.Images,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Area:        req.Area,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, property)
}

func (h *PropertyHandler) GetProperty(c echo.Context) error {
	property, err := h.propertyUseCase.GetProperty(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, property)
}

func (h *PropertyHandler) ListProperties(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	properties, total, err := h.propertyUseCase.ListProperties(c.Request().Context(), usecase.ListPropertiesInput{
		State:       c.QueryParam("state"),
		District:    c.QueryParam("district"),
		Type:        c.QueryParam("type"),
		ListingType: c.QueryParam("listing_type"),
		Limit:       pagination.PageSize,
		Offset:      pagination.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, properties, total, pagination.Page, pagination.PageSize)
}

func (h *PropertyHandler) ListMyProperties(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	properties, total, err := h.propertyUseCase.ListMyProperties(c.Request().Context(), getUserIDFromContext(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, properties, total, pagination.Page, pagination.PageSize)
}

func (h *PropertyHandler) UpdateProperty(c echo.Context) error {
	var req propertyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	property, err := h.propertyUseCase.UpdateProperty(c.Request().Context(), getUserIDFromContext(c), c.Param("id"), usecase.UpdatePropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		State:       req.State,
		District:    req.District,
		Type:        entity.PropertyType(req.Type),
		ListingType: entity.ListingType(req.ListingType),
		Images:      req.Images,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Area:        req.Area,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, property)
}

func (h *PropertyHandler) DeleteProperty(c echo.Context) error {
	if err := h.propertyUseCase.DeleteProperty(c.Request().Context(), getUserIDFromContext(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Property deleted",
	})
}
