package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/security"
)

func testJWTManager() *security.JWTManager {
	return security.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("new email registers", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, testJWTManager())

		repo.On("GetByEmail", ctx, "new@example.com").Return(nil, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Register(ctx, domain.UserCreate{Email: "new@example.com", Name: "New", Password: "hunter2hunter2"})
		assert.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, testJWTManager())

		existing := &domain.User{Email: "taken@example.com"}
		repo.On("GetByEmail", ctx, "taken@example.com").Return(existing, nil)

		_, err := svc.Register(ctx, domain.UserCreate{Email: "taken@example.com", Password: "hunter2hunter2"})
		assert.ErrorIs(t, err, domain.ErrConflict)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	t.Run("valid credentials return tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, testJWTManager())

		user := &domain.User{Email: "u@example.com", PasswordHash: string(hash)}
		repo.On("GetByEmail", ctx, "u@example.com").Return(user, nil)

		tokens, err := svc.Login(ctx, domain.UserLogin{Email: "u@example.com", Password: "correct-horse"})
		assert.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, testJWTManager())

		user := &domain.User{Email: "u@example.com", PasswordHash: string(hash)}
		repo.On("GetByEmail", ctx, "u@example.com").Return(user, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Email: "u@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, testJWTManager())

		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Email: "ghost@example.com", Password: "whatever"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, testJWTManager())

		_, err := svc.Refresh(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
