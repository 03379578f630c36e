package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hartawan/keymart-backend/internal/promo/domain"
	"github.com/hartawan/keymart-backend/internal/promo/repository"
	"github.com/hartawan/keymart-backend/internal/promo/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPromoService_CreatePromoCode(t *testing.T) {
	ctx := context.TODO()
	expires := time.Now().Add(24 * time.Hour)

	t.Run("Successful creation", func(t *testing.T) {
		mockRepo := new(mocks.MockPromoRepository)
		svc := NewPromoService(mockRepo)
		mockRepo.On("CreatePromoCode", ctx, mock.AnythingOfType("*domain.PromoCode")).Return(nil).Once()

		p, err := svc.CreatePromoCode(ctx, domain.CreatePromoCodeRequest{
			Code:      "LAUNCH25",
			Discount:  decimal.NewFromInt(25),
			ExpiresAt: expires,
		})

		assert.NoError(t, err)
		assert.Equal(t, "mock-promo-id", p.ID)
		assert.True(t, p.IsActive)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Discount outside 0-100 rejected", func(t *testing.T) {
		mockRepo := new(mocks.MockPromoRepository)
		svc := NewPromoService(mockRepo)

		for _, d := range []int64{-5, 101} {
			p, err := svc.CreatePromoCode(ctx, domain.CreatePromoCodeRequest{
				Code:      "BAD",
				Discount:  decimal.NewFromInt(d),
				ExpiresAt: expires,
			})
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ErrInvalidDiscount)
		}
		mockRepo.AssertNotCalled(t, "CreatePromoCode")
	})

	t.Run("Duplicate code surfaces Conflict", func(t *testing.T) {
		mockRepo := new(mocks.MockPromoRepository)
		svc := NewPromoService(mockRepo)
		mockRepo.On("CreatePromoCode", ctx, mock.AnythingOfType("*domain.PromoCode")).Return(repository.ErrPromoConflict).Once()

		p, err := svc.CreatePromoCode(ctx, domain.CreatePromoCodeRequest{
			Code:      "LAUNCH25",
			Discount:  decimal.NewFromInt(25),
			ExpiresAt: expires,
		})

		assert.Nil(t, p)
		assert.ErrorIs(t, err, repository.ErrPromoConflict)
		mockRepo.AssertExpectations(t)
	})
}

func TestPromoService_SweepExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("Delegates to repository", func(t *testing.T) {
		mockRepo := new(mocks.MockPromoRepository)
		svc := NewPromoService(mockRepo)
		mockRepo.On("DeactivateExpired", ctx).Return(int64(2), nil).Once()

		svc.SweepExpired(ctx)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Repository error is logged, not fatal", func(t *testing.T) {
		mockRepo := new(mocks.MockPromoRepository)
		svc := NewPromoService(mockRepo)
		mockRepo.On("DeactivateExpired", ctx).Return(int64(0), errors.New("db down")).Once()

		svc.SweepExpired(ctx)

		mockRepo.AssertExpectations(t)
	})
}

func TestPromoCode_Usable(t *testing.T) {
	now := time.Now()

	active := domain.PromoCode{IsActive: true, ExpiresAt: now.Add(time.Hour)}
	expired := domain.PromoCode{IsActive: true, ExpiresAt: now.Add(-time.Hour)}
	inactive := domain.PromoCode{IsActive: false, ExpiresAt: now.Add(time.Hour)}

	assert.True(t, active.Usable(now))
	assert.False(t, expired.Usable(now))
	assert.False(t, inactive.Usable(now))
}
