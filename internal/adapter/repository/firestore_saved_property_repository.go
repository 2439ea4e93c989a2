package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mahto/internal/domain/entity"
	"mahto/internal/domain/repository"
	"mahto/pkg/errors"
	"mahto/pkg/logger"
)

type firestoreSavedPropertyRepository struct {
	client *firestore.Client
}

func NewFirestoreSavedPropertyRepository(client *firestore.Client) repository.SavedPropertyRepository {
	return &firestoreSavedPropertyRepository{
		client: client,
	}
}

func (r *firestoreSavedPropertyRepository) Save(ctx context.Context, saved *entity.SavedProperty) error {
	if saved.ID == "" {
		saved.ID = entity.SavedPropertyIDFor(saved.UserID, saved.PropertyID)
	}

	_, err := r.client.Collection("savedProperties").Doc(saved.ID).Set(ctx, saved)
	if err != nil {
		return errors.Internal("Failed to save property", err)
	}

	return nil
}

func (r *firestoreSavedPropertyRepository) Remove(ctx context.Context, userID, propertyID string) error {
	id := entity.SavedPropertyIDFor(userID, propertyID)
	_, err := r.client.Collection("savedProperties").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to remove saved property", err)
	}

	return nil
}

func (r *firestoreSavedPropertyRepository) Exists(ctx context.Context, userID, propertyID string) (bool, error) {
	id := entity.SavedPropertyIDFor(userID, propertyID)
	_, err := r.client.Collection("savedProperties").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to check saved property", err)
	}

	return true, nil
}

func (r *firestoreSavedPropertyRepository) ListByUser(ctx context.Context, userID string) ([]*entity.SavedProperty, error) {
	docs, err := r.client.Collection("savedProperties").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list saved properties", err)
	}

	var saved []*entity.SavedProperty
	for _, doc := range docs {
		var s entity.SavedProperty
		if err := doc.DataTo(&s); err != nil {
			logger.Warn("Skipping malformed saved property %s: %v", doc.Ref.ID, err)
			continue
		}
		s.ID = doc.Ref.ID
		saved = append(saved, &s)
	}

	return saved, nil
}
