package usecase

import (
	"context"

	"mahto/internal/domain/entity"
	"mahto/internal/domain/repository"
	"mahto/pkg/errors"
	"mahto/pkg/logger"
)

type SavedPropertyUseCase struct {
	savedRepo    repository.SavedPropertyRepository
	propertyRepo repository.PropertyRepository
}

func NewSavedPropertyUseCase(savedRepo repository.SavedPropertyRepository, propertyRepo repository.PropertyRepository) *SavedPropertyUseCase {
	return &SavedPropertyUseCase{
		savedRepo:    savedRepo,
		propertyRepo: propertyRepo,
	}
}

// ToggleSaved saves the property for the user, or removes it when already
// saved. Returns whether the property is saved afterwards.
func (uc *SavedPropertyUseCase) ToggleSaved(ctx context.Context, userID, propertyID string) (bool, error) {
	if userID == "" {
		return false, errors.Unauthorized("Authentication required", nil)
	}

	if _, err := uc.propertyRepo.GetByID(ctx, propertyID); err != nil {
		return false, err
	}

	saved, err := uc.savedRepo.Exists(ctx, userID, propertyID)
	if err != nil {
		return false, err
	}

	if saved {
		if err := uc.savedRepo.Remove(ctx, userID, propertyID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := uc.savedRepo.Save(ctx, &entity.SavedProperty{
		UserID:     userID,
		PropertyID: propertyID,
	}); err != nil {
		return false, err
	}

	return true, nil
}

func (uc *SavedPropertyUseCase) IsSaved(ctx context.Context, userID, propertyID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return uc.savedRepo.Exists(ctx, userID, propertyID)
}

// ListSaved resolves the user's saved listings, newest save first. Listings
// deleted since being saved are skipped.
func (uc *SavedPropertyUseCase) ListSaved(ctx context.Context, userID string) ([]*entity.Property, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	saved, err := uc.savedRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	properties := make([]*entity.Property, 0, len(saved))
	for _, s := range saved {
		property, err := uc.propertyRepo.GetByID(ctx, s.PropertyID)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				logger.Debug("Saved property %s no longer exists", s.PropertyID)
				continue
			}
			return nil, err
		}
		properties = append(properties, property)
	}

	return properties, nil
}
