package utils

import (
	"github.com/shopspring/decimal"

	"rental-marketplace-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// LineTotal returns unitPrice × quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// SumItems returns Σ unitPrice × quantity over the items.
func SumItems(items []domain.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineTotal(it.UnitPrice, it.Quantity))
	}
	return total
}

// CouponDiscount computes the discount a coupon grants on a pre-discount
// total. A nil or inactive coupon, a total below the coupon's minimum order
// amount and an unknown discount type all yield zero.
//
// Percentage: min(value/100 × total, maxDiscountAmount or +∞).
// Flat:       min(value, total).
func CouponDiscount(c *domain.Coupon, total decimal.Decimal) decimal.Decimal {
	if c == nil || !c.IsActive {
		return decimal.Zero
	}
	if total.LessThan(c.MinOrderAmount) {
		return decimal.Zero
	}

	switch c.DiscountType {
	case domain.DiscountTypePercentage:
		d := c.DiscountValue.Div(hundred).Mul(total)
		if c.MaxDiscountAmount != nil && c.MaxDiscountAmount.IsPositive() {
			d = decimal.Min(d, *c.MaxDiscountAmount)
		}
		return d
	case domain.DiscountTypeFlat:
		return decimal.Min(c.DiscountValue, total)
	default:
		return decimal.Zero
	}
}

// Totals assembles the derived financial fields of an order.
// FinalAmount is TotalAmount - Discount; the delivery charge is recorded
// alongside but not added to it.
func Totals(items []domain.OrderItem, coupon *domain.Coupon, deliveryCharge decimal.Decimal) *domain.Pricing {
	total := SumItems(items)
	discount := CouponDiscount(coupon, total)
	// discount never exceeds total
	discount = decimal.Min(discount, total)

	return &domain.Pricing{
		Items:          items,
		TotalAmount:    total,
		Discount:       discount,
		DeliveryCharge: deliveryCharge,
		FinalAmount:    total.Sub(discount),
	}
}

// OfferPrice returns price × (1 - pct/100) when pct > 0, else nil.
func OfferPrice(price, pct decimal.Decimal) *decimal.Decimal {
	if !pct.IsPositive() {
		return nil
	}
	offer := price.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred)))
	return &offer
}
