package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/query"
)

// Implementations return a domain NotFound error when a single-row lookup
// matches nothing.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// Find returns one page of products matching q.
	Find(ctx context.Context, q query.ProductQuery) ([]domain.Product, error)
	// Count returns the number of products matching q, ignoring pagination.
	Count(ctx context.Context, q query.ProductQuery) (int64, error)
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type FlashSaleRepository interface {
	Create(ctx context.Context, sale *domain.FlashSale) error
	// FindActiveByProductIDs returns the discount percentage of the active
	// flash sale for each product that has one with a positive discount.
	FindActiveByProductIDs(ctx context.Context, ids []uuid.UUID, now time.Time) (map[uuid.UUID]decimal.Decimal, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type OrderRepository interface {
	// Create persists the order and its items atomically.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// UpdatePricing overwrites the derived totals and item unit prices.
	UpdatePricing(ctx context.Context, order *domain.Order) error
	// UpdateStatus sets the order and payment status; an empty value keeps
	// the stored one.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Order, int64, error)
	// Trending sums ordered quantity per product over orders created at or
	// after since, most ordered first.
	Trending(ctx context.Context, since time.Time, limit int) ([]domain.TrendingProduct, error)
}
