package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/query"
	"rental-marketplace-backend/internal/service"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error) {
	args := m.Called(ctx, name, email, password, role)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.String(1), args.Error(2)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) CreateProduct(ctx context.Context, actor domain.Actor, p *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, actor, p)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductView, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.ProductView)
	return out, args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	args := m.Called(ctx, actor, id, patch)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockProductService) QueryProducts(ctx context.Context, q query.ProductQuery) (*service.ProductPage, error) {
	args := m.Called(ctx, q)
	out, _ := args.Get(0).(*service.ProductPage)
	return out, args.Error(1)
}

func (m *MockProductService) ListMyProducts(ctx context.Context, actor domain.Actor, q query.ProductQuery) (*service.ProductPage, error) {
	args := m.Called(ctx, actor, q)
	out, _ := args.Get(0).(*service.ProductPage)
	return out, args.Error(1)
}

func (m *MockProductService) GetTrendingProducts(ctx context.Context, limit int) ([]domain.TrendingProduct, error) {
	args := m.Called(ctx, limit)
	out, _ := args.Get(0).([]domain.TrendingProduct)
	return out, args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) PriceOrder(ctx context.Context, items []domain.LineItem, couponID *uuid.UUID) (*domain.Pricing, error) {
	args := m.Called(ctx, items, couponID)
	out, _ := args.Get(0).(*domain.Pricing)
	return out, args.Error(1)
}

func (m *MockOrderService) PriceAndCreateOrder(ctx context.Context, userID uuid.UUID, items []domain.LineItem, couponID *uuid.UUID, method domain.PaymentMethod) (*domain.Order, error) {
	args := m.Called(ctx, userID, items, couponID, method)
	out, _ := args.Get(0).(*domain.Order)
	return out, args.Error(1)
}

func (m *MockOrderService) RepriceOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	out, _ := args.Get(0).(*domain.Order)
	return out, args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, actor, orderID)
	out, _ := args.Get(0).(*domain.Order)
	return out, args.Error(1)
}

func (m *MockOrderService) ListMyOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*service.OrderPage, error) {
	args := m.Called(ctx, userID, page, limit)
	out, _ := args.Get(0).(*service.OrderPage)
	return out, args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (*domain.Order, error) {
	args := m.Called(ctx, orderID, status, paymentStatus)
	out, _ := args.Get(0).(*domain.Order)
	return out, args.Error(1)
}

type MockPromotionService struct{ mock.Mock }

func (m *MockPromotionService) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockPromotionService) GetCoupon(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Coupon)
	return out, args.Error(1)
}

func (m *MockPromotionService) CreateFlashSale(ctx context.Context, actor domain.Actor, f *domain.FlashSale) error {
	return m.Called(ctx, actor, f).Error(0)
}
