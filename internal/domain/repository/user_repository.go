package repository

import (
	"context"

	"mahto/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateFields merge-writes the given fields into the profile document,
	// leaving all other fields untouched.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// Watch streams the profile document; each emission is the full current
	// snapshot. Both channels close when ctx is cancelled.
	Watch(ctx context.Context, id string) (<-chan *entity.User, <-chan error)
}
