package service

import (
	"context"

	"github.com/google/uuid"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/query"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error) // user, access token
}

type ProductService interface {
	CreateProduct(ctx context.Context, actor domain.Actor, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductView, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	QueryProducts(ctx context.Context, q query.ProductQuery) (*ProductPage, error)
	ListMyProducts(ctx context.Context, actor domain.Actor, q query.ProductQuery) (*ProductPage, error)
	GetTrendingProducts(ctx context.Context, limit int) ([]domain.TrendingProduct, error)
}

type OrderService interface {
	PriceOrder(ctx context.Context, items []domain.LineItem, couponID *uuid.UUID) (*domain.Pricing, error)
	PriceAndCreateOrder(ctx context.Context, userID uuid.UUID, items []domain.LineItem, couponID *uuid.UUID, method domain.PaymentMethod) (*domain.Order, error)
	RepriceOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	GetOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderPage, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (*domain.Order, error)
}

type PromotionService interface {
	CreateCoupon(ctx context.Context, coupon *domain.Coupon) error
	GetCoupon(ctx context.Context, id uuid.UUID) (*domain.Coupon, error)
	CreateFlashSale(ctx context.Context, actor domain.Actor, sale *domain.FlashSale) error
}

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, user *domain.User, order *domain.Order) error
}

// Meta describes one page of a listing.
type Meta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

func newMeta(page, limit int, total int64) Meta {
	totalPage := 0
	if limit > 0 {
		totalPage = int((total + int64(limit) - 1) / int64(limit))
	}
	return Meta{Page: page, Limit: limit, Total: total, TotalPage: totalPage}
}

type ProductPage struct {
	Meta   Meta                 `json:"meta"`
	Result []domain.ProductView `json:"result"`
}

type OrderPage struct {
	Meta   Meta           `json:"meta"`
	Result []domain.Order `json:"result"`
}
