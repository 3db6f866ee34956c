package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/repository"
)

type promotionService struct {
	couponRepo    repository.CouponRepository
	flashSaleRepo repository.FlashSaleRepository
	productRepo   repository.ProductRepository
}

func NewPromotionService(
	couponRepo repository.CouponRepository,
	flashSaleRepo repository.FlashSaleRepository,
	productRepo repository.ProductRepository,
) PromotionService {
	return &promotionService{
		couponRepo:    couponRepo,
		flashSaleRepo: flashSaleRepo,
		productRepo:   productRepo,
	}
}

func (s *promotionService) CreateCoupon(ctx context.Context, c *domain.Coupon) (err error) {
	defer logger.Tracked("promotionService.CreateCoupon", &err, "code", c.Code)()

	c.ID = uuid.Nil
	if err := c.Validate(); err != nil {
		return err
	}
	return s.couponRepo.Create(ctx, c)
}

func (s *promotionService) GetCoupon(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	return s.couponRepo.GetByID(ctx, id)
}

// CreateFlashSale starts the sale now unless a start time was given.
func (s *promotionService) CreateFlashSale(ctx context.Context, actor domain.Actor, f *domain.FlashSale) (err error) {
	defer logger.Tracked("promotionService.CreateFlashSale", &err, "productID", f.ProductID)()

	f.ID = uuid.Nil
	f.CreatedBy = actor.UserID
	if f.StartsAt.IsZero() {
		f.StartsAt = time.Now().UTC()
	}
	if err := f.Validate(); err != nil {
		return err
	}
	if _, err := s.productRepo.GetByID(ctx, f.ProductID); err != nil {
		return err
	}
	return s.flashSaleRepo.Create(ctx, f)
}
