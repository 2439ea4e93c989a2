package repository

import (
	"context"

	"mahto/internal/domain/entity"
)

type SavedPropertyRepository interface {
	Save(ctx context.Context, saved *entity.SavedProperty) error
	Remove(ctx context.Context, userID, propertyID string) error
	Exists(ctx context.Context, userID, propertyID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.SavedProperty, error)
}
