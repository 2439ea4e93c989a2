package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mahto/pkg/errors"
)

func TestRegisterDerivesVirtualEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	authClient := newFakeAuthClient()
	uc := NewAuthUseCase(userRepo, authClient)

	result, err := uc.Register(context.Background(), RegisterInput{
		Name:        "Alice",
		CountryCode: "+1",
		Phone:       "5550001111",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "15550001111@mahto.app", result.User.Email)
	assert.Equal(t, "+15550001111", result.User.Phone)
	assert.True(t, result.User.LoggedIn)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)

	stored, err := userRepo.GetByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
	assert.NotEmpty(t, stored.UpdatedAt)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	userRepo := newFakeUserRepo()
	authClient := newFakeAuthClient()
	uc := NewAuthUseCase(userRepo, authClient)

	input := RegisterInput{
		Name:        "Alice",
		CountryCode: "1",
		Phone:       "5550001111",
		Password:    "correct-horse",
	}

	_, err := uc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestLoginWithPhone(t *testing.T) {
	userRepo := newFakeUserRepo()
	authClient := newFakeAuthClient()
	uc := NewAuthUseCase(userRepo, authClient)

	registered, err := uc.Register(context.Background(), RegisterInput{
		Name:        "Alice",
		CountryCode: "+1",
		Phone:       "5550001111",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	result, err := uc.Login(context.Background(), "+1", "5550001111", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.True(t, result.User.LoggedIn)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	authClient := newFakeAuthClient()
	uc := NewAuthUseCase(userRepo, authClient)

	_, err := uc.Register(context.Background(), RegisterInput{
		Name:        "Alice",
		CountryCode: "+1",
		Phone:       "5550001111",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), "+1", "5550001111", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestLogoutRevokesTokens(t *testing.T) {
	userRepo := newFakeUserRepo()
	authClient := newFakeAuthClient()
	uc := NewAuthUseCase(userRepo, authClient)

	result, err := uc.Register(context.Background(), RegisterInput{
		Name:        "Alice",
		CountryCode: "+1",
		Phone:       "5550001111",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), result.User.ID))
	assert.True(t, authClient.revoked[result.User.ID])
}
