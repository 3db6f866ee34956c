package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/events"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/query"
	"rental-marketplace-backend/internal/repository"
	"rental-marketplace-backend/internal/utils"
)

// DeliveryCharger decides the delivery charge recorded on an order.
type DeliveryCharger func(items []domain.OrderItem, total decimal.Decimal) decimal.Decimal

// FlatDeliveryCharge charges the same amount on every order.
func FlatDeliveryCharge(amount decimal.Decimal) DeliveryCharger {
	return func([]domain.OrderItem, decimal.Decimal) decimal.Decimal { return amount }
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	userRepo    repository.UserRepository
	delivery    DeliveryCharger
	publisher   events.Publisher
	emailSvc    EmailService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	userRepo repository.UserRepository,
	delivery DeliveryCharger,
	publisher events.Publisher,
	emailSvc EmailService,
) OrderService {
	if delivery == nil {
		delivery = FlatDeliveryCharge(decimal.Zero)
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		userRepo:    userRepo,
		delivery:    delivery,
		publisher:   publisher,
		emailSvc:    emailSvc,
	}
}

func validateLineItems(items []domain.LineItem) error {
	if len(items) == 0 {
		return domain.InvalidInput("order must contain at least one product")
	}
	for i, it := range items {
		if it.ProductID == uuid.Nil {
			return domain.InvalidInput("item %d: product is required", i)
		}
		if it.Quantity < 1 {
			return domain.InvalidInput("item %d: quantity must be at least 1", i)
		}
		if strings.TrimSpace(it.Color) == "" {
			return domain.InvalidInput("item %d: color is required", i)
		}
	}
	return nil
}

// PriceOrder prices items against the current catalog. Caller supplied unit
// prices never reach this point; every unit price is the product's list price.
func (s *orderService) PriceOrder(ctx context.Context, items []domain.LineItem, couponID *uuid.UUID) (pricing *domain.Pricing, err error) {
	defer logger.Tracked("orderService.PriceOrder", &err, "items", len(items))()

	if err := validateLineItems(items); err != nil {
		return nil, err
	}

	priced := make([]domain.OrderItem, len(items))
	prices := make(map[uuid.UUID]decimal.Decimal, len(items))
	for i, it := range items {
		price, ok := prices[it.ProductID]
		if !ok {
			product, err := s.productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			price = product.Price
			prices[it.ProductID] = price
		}
		priced[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: price,
			Color:     it.Color,
		}
	}

	coupon, err := s.lookupCoupon(ctx, couponID)
	if err != nil {
		return nil, err
	}

	return utils.Totals(priced, coupon, s.delivery(priced, utils.SumItems(priced))), nil
}

// lookupCoupon treats a missing coupon as no coupon.
func (s *orderService) lookupCoupon(ctx context.Context, couponID *uuid.UUID) (*domain.Coupon, error) {
	if couponID == nil {
		return nil, nil
	}
	coupon, err := s.couponRepo.GetByID(ctx, *couponID)
	if domain.IsNotFound(err) {
		logger.InfoContext(ctx, "coupon not found, pricing without discount", "coupon_id", *couponID)
		return nil, nil
	}
	return coupon, err
}

func (s *orderService) PriceAndCreateOrder(ctx context.Context, userID uuid.UUID, items []domain.LineItem, couponID *uuid.UUID, method domain.PaymentMethod) (order *domain.Order, err error) {
	defer logger.Tracked("orderService.PriceAndCreateOrder", &err, "userID", userID)()

	if method == "" {
		method = domain.PaymentMethodOnline
	}
	if !method.Valid() {
		return nil, domain.InvalidInput("paymentMethod must be COD or Online")
	}

	pricing, err := s.PriceOrder(ctx, items, couponID)
	if err != nil {
		return nil, err
	}

	order = &domain.Order{
		UserID:        userID,
		CouponID:      couponID,
		Status:        domain.OrderStatusPending,
		PaymentMethod: method,
		PaymentStatus: domain.PaymentStatusPending,
	}
	order.ApplyPricing(pricing)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeOrderCreated, order)
	s.sendConfirmation(ctx, order)
	return order, nil
}

// RepriceOrder recomputes an existing order from the current catalog and
// coupon state.
func (s *orderService) RepriceOrder(ctx context.Context, orderID uuid.UUID) (order *domain.Order, err error) {
	defer logger.Tracked("orderService.RepriceOrder", &err, "orderID", orderID)()

	order, err = s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	pricing, err := s.PriceOrder(ctx, order.LineItems(), order.CouponID)
	if err != nil {
		return nil, err
	}
	order.ApplyPricing(pricing)

	if err := s.orderRepo.UpdatePricing(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeOrderRepriced, order)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.PreconditionFailed("order %s does not belong to the caller", orderID)
	}
	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderPage, error) {
	if page < 1 {
		page = query.DefaultPage
	}
	if page > query.MaxPage {
		page = query.MaxPage
	}
	if limit < 1 {
		limit = query.DefaultLimit
	}
	if limit > query.MaxLimit {
		limit = query.MaxLimit
	}
	orders, total, err := s.orderRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Meta: newMeta(page, limit, total), Result: orders}, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (order *domain.Order, err error) {
	defer logger.Tracked("orderService.UpdateOrderStatus", &err, "orderID", orderID, "status", status)()

	// an empty value leaves that status unchanged
	if status == "" && paymentStatus == "" {
		return nil, domain.InvalidInput("status or paymentStatus is required")
	}
	if status != "" && !status.Valid() {
		return nil, domain.InvalidInput("invalid order status %q", status)
	}
	if paymentStatus != "" && !paymentStatus.Valid() {
		return nil, domain.InvalidInput("invalid payment status %q", paymentStatus)
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, status, paymentStatus); err != nil {
		return nil, err
	}
	order, err = s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeOrderStatusUpdated, order)
	return order, nil
}

func (s *orderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishOrder(ctx, events.NewOrderEvent(eventType, order)); err != nil {
		logger.WarnContext(ctx, "failed to publish order event", "type", eventType, "order_id", order.ID, "error", err)
	}
}

func (s *orderService) sendConfirmation(ctx context.Context, order *domain.Order) {
	if s.emailSvc == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		logger.WarnContext(ctx, "order confirmation skipped, user lookup failed", "order_id", order.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendOrderConfirmation(ctx, user, order); err != nil {
		logger.WarnContext(ctx, "failed to send order confirmation", "order_id", order.ID, "error", err)
	}
}
