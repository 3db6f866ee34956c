package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "Online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodOnline
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// LineItem is what the caller asks for. Any unit price the caller sends is
// not part of it: unit prices always come from the catalog.
type LineItem struct {
	ProductID uuid.UUID `json:"product"`
	Quantity  int       `json:"quantity"`
	Color     string    `json:"color"`
}

type OrderItem struct {
	ProductID uuid.UUID       `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Color     string          `json:"color"`
}

// Pricing is the derived financial part of an order.
type Pricing struct {
	Items          []OrderItem     `json:"products"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Discount       decimal.Decimal `json:"discount"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
}

type Order struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user"`
	CouponID *uuid.UUID `json:"coupon"`
	Pricing
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ApplyPricing overwrites every derived field of the order.
func (o *Order) ApplyPricing(p *Pricing) {
	o.Pricing = *p
}

// LineItems returns the order's items stripped of their prices.
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = LineItem{ProductID: it.ProductID, Quantity: it.Quantity, Color: it.Color}
	}
	return items
}
