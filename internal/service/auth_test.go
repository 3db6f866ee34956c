package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := NewAuthService(users, security.NewTokenManager(testSecret, time.Hour))
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Register(context.Background(), " Rina ", "Rina@Example.com", "s3cretpass", domain.UserRoleLandlord)

		require.NoError(t, err)
		assert.Equal(t, "Rina", user.Name)
		assert.Equal(t, "rina@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cretpass")))
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepo), security.NewTokenManager(testSecret, time.Hour))
		ctx := context.Background()

		_, err := svc.Register(ctx, "", "a@b.co", "s3cretpass", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.Register(ctx, "A", "not-an-email", "s3cretpass", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.Register(ctx, "A", "a@b.co", "short", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.Register(ctx, "A", "a@b.co", "s3cretpass", domain.UserRoleAdmin)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)
	tokens := security.NewTokenManager(testSecret, time.Hour)

	active := &domain.User{ID: uuid.New(), Email: "a@b.co", PasswordHash: string(hash), Role: domain.UserRoleUser, IsActive: true}
	blocked := &domain.User{ID: uuid.New(), Email: "x@b.co", PasswordHash: string(hash), IsActive: false}

	users := new(MockUserRepo)
	users.On("GetByEmail", mock.Anything, "a@b.co").Return(active, nil)
	users.On("GetByEmail", mock.Anything, "x@b.co").Return(blocked, nil)
	users.On("GetByEmail", mock.Anything, "nobody@b.co").Return(nil, domain.NotFound("user", "nobody@b.co"))
	svc := NewAuthService(users, tokens)
	ctx := context.Background()

	user, token, err := svc.Login(ctx, "a@b.co", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, active.ID, user.ID)
	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, active.ID, claims.UserID)

	_, _, err = svc.Login(ctx, "a@b.co", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, _, err = svc.Login(ctx, "nobody@b.co", "s3cretpass")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, _, err = svc.Login(ctx, "x@b.co", "s3cretpass")
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
}
