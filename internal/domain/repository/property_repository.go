package repository

import (
	"context"

	"mahto/internal/domain/entity"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	// List applies equality filters (field name -> value) and returns pages
	// ordered newest first.
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Property, int64, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Property, int64, error)
	Update(ctx context.Context, property *entity.Property) error
	Delete(ctx context.Context, id string) error
}
