package service

import (
	"context"
	"testing"

	"github.com/hartawan/keymart-backend/internal/user/domain"
	"github.com/hartawan/keymart-backend/internal/user/repository"
	"github.com/hartawan/keymart-backend/internal/user/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful registration hashes password and normalizes email", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo)

		var captured *domain.User
		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*domain.User)
				captured = &domain.User{Email: u.Email, PasswordHash: u.PasswordHash}
			}).Return(nil).Once()

		user, err := svc.Register(ctx, domain.RegisterRequest{
			Email:    "  Alice@Example.COM ",
			Password: "s3cret-pass",
		})

		assert.NoError(t, err)
		assert.Equal(t, "mock-user-id", user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Empty(t, user.PasswordHash, "hash must be stripped from the response")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(captured.PasswordHash), []byte("s3cret-pass")))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate email surfaces conflict", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo)
		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrUserConflict).Once()

		user, err := svc.Register(ctx, domain.RegisterRequest{
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		mockRepo.AssertExpectations(t)
	})
}
