package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hartawan/keymart-backend/internal/platform/logger"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/platform/search"
	"github.com/hartawan/keymart-backend/internal/promo/domain"
	"github.com/hartawan/keymart-backend/internal/promo/repository"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

var ErrInvalidDiscount = errors.New("discount must be a percentage between 0 and 100")

var hundred = decimal.NewFromInt(100)

var promoSearchFields = []search.FieldSpec{
	{Name: "code", Type: search.String},
	{Name: "discount", Type: search.Number},
	{Name: "is_active", Type: search.Boolean},
	{Name: "expires_at", Type: search.Date},
}

type PromoService interface {
	CreatePromoCode(ctx context.Context, req domain.CreatePromoCodeRequest) (*domain.PromoCode, error)
	GetPromoCodeByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	ListPromoCodes(ctx context.Context, searchTerm string, page pagination.Params) ([]domain.PromoCode, int, error)
	SweepExpired(ctx context.Context)
}

type promoServiceImpl struct {
	repo      repository.PromoRepository
	scheduler *cron.Cron
}

func NewPromoService(repo repository.PromoRepository) PromoService {
	s := &promoServiceImpl{
		repo:      repo,
		scheduler: cron.New(cron.WithSeconds()),
	}
	s.initScheduler()
	return s
}

func (s *promoServiceImpl) initScheduler() {
	spec := "0 * * * * *" // every minute
	s.scheduler.AddFunc(spec, func() {
		s.SweepExpired(context.Background())
	})
	s.scheduler.Start()
	logger.Info(fmt.Sprintf("Promo expiry sweeper initialized with spec '%s'", spec))
}

func (s *promoServiceImpl) SweepExpired(ctx context.Context) {
	deactivated, err := s.repo.DeactivateExpired(ctx)
	if err != nil {
		logger.Error("SweepExpired: failed to deactivate expired promo codes", err)
		return
	}
	if deactivated > 0 {
		logger.Info(fmt.Sprintf("SweepExpired: deactivated %d expired promo codes", deactivated))
	}
}

func (s *promoServiceImpl) CreatePromoCode(ctx context.Context, req domain.CreatePromoCodeRequest) (*domain.PromoCode, error) {
	if req.Discount.IsNegative() || req.Discount.GreaterThan(hundred) {
		return nil, ErrInvalidDiscount
	}

	p := &domain.PromoCode{
		Code:      req.Code,
		Discount:  req.Discount,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.repo.CreatePromoCode(ctx, p); err != nil {
		logger.Error("Svc.CreatePromoCode: repo error", err)
		return nil, err
	}
	return p, nil
}

func (s *promoServiceImpl) GetPromoCodeByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	return s.repo.GetPromoCodeByCode(ctx, code)
}

func (s *promoServiceImpl) ListPromoCodes(ctx context.Context, searchTerm string, page pagination.Params) ([]domain.PromoCode, int, error) {
	pred := search.Build(searchTerm, promoSearchFields, nil)
	return s.repo.ListPromoCodes(ctx, pred, page)
}
