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

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to create user profile", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := r.client.Collection("users").Where("email", "==", email).Limit(1)
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query user by email", err)
	}
	if len(docs) == 0 {
		return nil, errors.NotFound("User", nil)
	}

	var user entity.User
	if err := docs[0].DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = docs[0].Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	_, err := r.client.Collection("users").Doc(id).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		logger.Error("Firestore profile merge failed for user %s: %v", id, err)
		return errors.Internal("Failed to update user profile", err)
	}

	return nil
}

func (r *firestoreUserRepository) Watch(ctx context.Context, id string) (<-chan *entity.User, <-chan error) {
	updates := make(chan *entity.User)
	errs := make(chan error, 1)

	iter := r.client.Collection("users").Doc(id).Snapshots(ctx)

	go func() {
		defer close(updates)
		defer close(errs)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				logger.Error("Profile watch for user %s ended: %v", id, err)
				errs <- errors.Internal("Profile subscription failed", err)
				return
			}

			if !snap.Exists() {
				continue
			}

			var user entity.User
			if err := snap.DataTo(&user); err != nil {
				logger.Warn("Skipping malformed profile snapshot for user %s: %v", id, err)
				continue
			}
			user.ID = snap.Ref.ID

			select {
			case updates <- &user:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, errs
}
