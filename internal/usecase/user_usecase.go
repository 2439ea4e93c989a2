package usecase

import (
	"context"
	"time"

	"mahto/internal/domain/entity"
	"mahto/internal/domain/repository"
	"mahto/internal/infrastructure/cache"
	"mahto/pkg/errors"
)

type UserUseCase struct {
	userRepo     repository.UserRepository
	profileCache *cache.ProfileCache
}

func NewUserUseCase(userRepo repository.UserRepository, profileCache *cache.ProfileCache) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		profileCache: profileCache,
	}
}

type UpdateProfileInput struct {
	Name    string
	Phone   string
	Address string
	Image   string
}

// GetProfile returns the profile snapshot for the signed-in user. A missing
// document degrades to the guest snapshot rather than an error.
func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return entity.GuestProfile(), nil
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return entity.GuestProfile(), nil
		}
		return nil, err
	}
	user.LoggedIn = true

	return user, nil
}

// UpdateProfile merge-writes only the provided fields; empty inputs leave the
// stored value untouched. Every successful update stamps updatedAt.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	fields := map[string]interface{}{}
	if input.Name != "" {
		fields["name"] = input.Name
	}
	if input.Phone != "" {
		fields["phone"] = input.Phone
	}
	if input.Address != "" {
		fields["address"] = input.Address
	}
	if input.Image != "" {
		fields["image"] = input.Image
	}

	if len(fields) == 0 {
		return uc.GetProfile(ctx, userID)
	}

	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	if err := uc.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}

	// Counterpart enrichment must not serve the pre-update snapshot.
	uc.profileCache.Invalidate(userID)

	return uc.GetProfile(ctx, userID)
}

// WatchProfile streams profile snapshots for live UI binding. The caller owns
// ctx; cancelling it ends the stream.
func (uc *UserUseCase) WatchProfile(ctx context.Context, userID string) (<-chan *entity.User, <-chan error) {
	return uc.userRepo.Watch(ctx, userID)
}
