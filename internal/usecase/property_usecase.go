package usecase

import (
	"context"
	"fmt"

	"mahto/internal/domain/entity"
	"mahto/internal/domain/repository"
	"mahto/pkg/errors"
	"mahto/pkg/logger"
)

type PropertyUseCase struct {
	propertyRepo repository.PropertyRepository
}

func NewPropertyUseCase(propertyRepo repository.PropertyRepository) *PropertyUseCase {
	return &PropertyUseCase{
		propertyRepo: propertyRepo,
	}
}

type CreatePropertyInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	State       string
	District    string
	Type        entity.PropertyType
	ListingType entity.ListingType
	Images      []string
	Bedrooms    int
	Bathrooms   int
	Area        string
}

type UpdatePropertyInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	State       string
	District    string
	Type        entity.PropertyType
	ListingType entity.ListingType
	Images      []string
	Bedrooms    int
	Bathrooms   int
	Area        string
}

type ListPropertiesInput struct {
	State       string
	District    string
	Type        string
	ListingType string
	Limit       int
	Offset      int
}

func validateListing(propertyType entity.PropertyType, listingType entity.ListingType, images []string) error {
	if !propertyType.Valid() {
		return errors.BadRequest(fmt.Sprintf("Invalid property type: %s", propertyType), nil)
	}
	if !listingType.Valid() {
		return errors.BadRequest(fmt.Sprintf("Invalid listing type: %s", listingType), nil)
	}
	if len(images) > entity.MaxPropertyImages {
		return errors.BadRequest(fmt.Sprintf("A listing can have at most %d images", entity.MaxPropertyImages), nil)
	}
	return nil
}

func (uc *PropertyUseCase) CreateProperty(ctx context.Context, userID string, input CreatePropertyInput) (*entity.Property, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if err := validateListing(input.Type, input.ListingType, input.Images); err != nil {
		return nil, err
	}

	property := &entity.Property{
		OwnerID:     userID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Location:    input.Location,
		State:       input.State,
		District:    input.District,
		Type:        input.Type,
		ListingType: input.ListingType,
		Images:      input.Images,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Area:        input.Area,
	}

	if err := uc.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}

	logger.Info("Property %s created by %s", property.ID, userID)

	return property, nil
}

func (uc *PropertyUseCase) GetProperty(ctx context.Context, id string) (*entity.Property, error) {
	return uc.propertyRepo.GetByID(ctx, id)
}

// ListProperties returns listings newest first, narrowed by any combination
// of state, district, property type and listing type.
func (uc *PropertyUseCase) ListProperties(ctx context.Context, input ListPropertiesInput) ([]*entity.Property, int64, error) {
	filter := map[string]interface{}{}
	if input.State != "" {
		filter["state"] = input.State
	}
	if input.District != "" {
		filter["district"] = input.District
	}
	if input.Type != "" {
		if !entity.PropertyType(input.Type).Valid() {
			return nil, 0, errors.BadRequest(fmt.Sprintf("Invalid property type: %s", input.Type), nil)
		}
		filter["type"] = input.Type
	}
	if input.ListingType != "" {
		if !entity.ListingType(input.ListingType).Valid() {
			return nil, 0, errors.BadRequest(fmt.Sprintf("Invalid listing type: %s", input.ListingType), nil)
		}
		filter["listingType"] = input.ListingType
	}

	return uc.propertyRepo.List(ctx, filter, input.Limit, input.Offset)
}

func (uc *PropertyUseCase) ListMyProperties(ctx context.Context, userID string, limit, offset int) ([]*entity.Property, int64, error) {
	if userID == "" {
		return nil, 0, errors.Unauthorized("Authentication required", nil)
	}
	return uc.propertyRepo.ListByOwner(ctx, userID, limit, offset)
}

func (uc *PropertyUseCase) UpdateProperty(ctx context.Context, userID, propertyID string, input UpdatePropertyInput) (*entity.Property, error) {
	property, err := uc.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != userID {
		return nil, errors.Forbidden("Not the owner of this property", nil)
	}
	if err := validateListing(input.Type, input.ListingType, input.Images); err != nil {
		return nil, err
	}

	property.Title = input.Title
	property.Description = input.Description
	property.Price = input.Price
	property.Location = input.Location
	property.State = input.State
	property.District = input.District
	property.Type = input.Type
	property.ListingType = input.ListingType
	property.Images = input.Images
	property.Bedrooms = input.Bedrooms
	property.Bathrooms = input.Bathrooms
	property.Area = input.Area

	if err := uc.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}

	return property, nil
}

func (uc *PropertyUseCase) DeleteProperty(ctx context.Context, userID, propertyID string) error {
	property, err := uc.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if property.OwnerID != userID {
		return errors.Forbidden("Not the owner of this property", nil)
	}

	return uc.propertyRepo.Delete(ctx, propertyID)
}
