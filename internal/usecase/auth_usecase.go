package usecase

import (
	"context"
	"time"

	"mahto/internal/domain/entity"
	"mahto/internal/domain/repository"
	"mahto/pkg/errors"
	"mahto/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	Name        string
	CountryCode string
	Phone       string
	Password    string
}

type AuthResult struct {
	User         *entity.User
	Token        string
	RefreshToken string
}

// Register signs a user up with a phone number. Accounts live in Firebase
// Auth under a virtual email derived from the number, so the same number can
// never register twice.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := entity.VirtualEmail(input.CountryCode, input.Phone)

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.Conflict("Phone number already registered", nil)
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, email, input.Password, input.Name)
	if err != nil {
		logger.Error("Firebase user creation failed for %s: %v", email, err)
		return nil, errors.Conflict("Phone number already registered", err)
	}

	user := &entity.User{
		ID:        uid,
		Name:      input.Name,
		Phone:     entity.FullPhone(input.CountryCode, input.Phone),
		Email:     email,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		LoggedIn:  true,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, refreshToken, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

// Login authenticates with a phone number and password via the derived
// virtual email.
func (uc *AuthUseCase) Login(ctx context.Context, countryCode, phone, password string) (*AuthResult, error) {
	email := entity.VirtualEmail(countryCode, phone)

	token, refreshToken, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, email, password)
	if err != nil {
		logger.Debug("Login failed for %s: %v", email, err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.firebaseAuth.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Internal("Failed to verify token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}
		// Auth account without a profile document still signs in; the
		// profile fills in on first update.
		user = &entity.User{ID: uid, Email: email}
	}
	user.LoggedIn = true

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes the user's refresh tokens so existing sessions cannot mint
// new id tokens.
func (uc *AuthUseCase) Logout(ctx context.Context, uid string) error {
	if err := uc.firebaseAuth.RevokeTokens(ctx, uid); err != nil {
		return errors.Internal("Failed to revoke tokens", err)
	}
	return nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}
