package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rental-marketplace-backend/internal/domain"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

func assertDec(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, d(expected).Equal(actual), "expected %d, got %s", expected, actual)
}

func TestSumItems(t *testing.T) {
	items := []domain.OrderItem{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: d(100)},
		{ProductID: uuid.New(), Quantity: 3, UnitPrice: decimal.RequireFromString("10.50")},
	}
	assert.True(t, decimal.RequireFromString("231.5").Equal(SumItems(items)))
	assertDec(t, 0, SumItems(nil))
}

func TestCouponDiscount(t *testing.T) {
	percent := &domain.Coupon{
		IsActive:          true,
		DiscountType:      domain.DiscountTypePercentage,
		DiscountValue:     d(10),
		MinOrderAmount:    d(100),
		MaxDiscountAmount: dp(50),
	}

	t.Run("Percentage capped by max discount", func(t *testing.T) {
		assertDec(t, 50, CouponDiscount(percent, d(1000)))
	})

	t.Run("Percentage under the cap", func(t *testing.T) {
		assertDec(t, 20, CouponDiscount(percent, d(200)))
	})

	t.Run("Below minimum order amount", func(t *testing.T) {
		assertDec(t, 0, CouponDiscount(percent, d(50)))
	})

	t.Run("Exactly minimum order amount", func(t *testing.T) {
		assertDec(t, 10, CouponDiscount(percent, d(100)))
	})

	t.Run("Zero max discount means uncapped", func(t *testing.T) {
		c := *percent
		c.MaxDiscountAmount = dp(0)
		assertDec(t, 100, CouponDiscount(&c, d(1000)))
	})

	t.Run("Inactive coupon", func(t *testing.T) {
		c := *percent
		c.IsActive = false
		assertDec(t, 0, CouponDiscount(&c, d(1000)))
	})

	t.Run("Nil coupon", func(t *testing.T) {
		assertDec(t, 0, CouponDiscount(nil, d(1000)))
	})

	t.Run("Flat capped by total", func(t *testing.T) {
		flat := &domain.Coupon{IsActive: true, DiscountType: domain.DiscountTypeFlat, DiscountValue: d(30)}
		assertDec(t, 20, CouponDiscount(flat, d(20)))
		assertDec(t, 30, CouponDiscount(flat, d(200)))
	})

	t.Run("Unknown type", func(t *testing.T) {
		c := &domain.Coupon{IsActive: true, DiscountType: "BOGO", DiscountValue: d(30)}
		assertDec(t, 0, CouponDiscount(c, d(200)))
	})
}

func TestTotals(t *testing.T) {
	items := []domain.OrderItem{{ProductID: uuid.New(), Quantity: 1, UnitPrice: d(1000)}}
	coupon := &domain.Coupon{
		IsActive:          true,
		DiscountType:      domain.DiscountTypePercentage,
		DiscountValue:     d(10),
		MinOrderAmount:    d(100),
		MaxDiscountAmount: dp(50),
	}

	p := Totals(items, coupon, d(60))
	assertDec(t, 1000, p.TotalAmount)
	assertDec(t, 50, p.Discount)
	assertDec(t, 60, p.DeliveryCharge)
	assertDec(t, 950, p.FinalAmount)

	flat := &domain.Coupon{IsActive: true, DiscountType: domain.DiscountTypeFlat, DiscountValue: d(30)}
	p = Totals([]domain.OrderItem{{Quantity: 1, UnitPrice: d(20)}}, flat, decimal.Zero)
	assertDec(t, 20, p.Discount)
	assertDec(t, 0, p.FinalAmount)
}

func TestTotals_Invariants(t *testing.T) {
	coupons := []*domain.Coupon{
		nil,
		{IsActive: true, DiscountType: domain.DiscountTypeFlat, DiscountValue: d(75)},
		{IsActive: true, DiscountType: domain.DiscountTypePercentage, DiscountValue: d(100)},
		{IsActive: true, DiscountType: domain.DiscountTypePercentage, DiscountValue: d(15), MaxDiscountAmount: dp(5)},
	}
	for _, price := range []int64{0, 1, 49, 500} {
		for _, qty := range []int{1, 3} {
			for _, c := range coupons {
				p := Totals([]domain.OrderItem{{Quantity: qty, UnitPrice: d(price)}}, c, decimal.Zero)
				assert.True(t, p.FinalAmount.Equal(p.TotalAmount.Sub(p.Discount)))
				assert.True(t, p.Discount.LessThanOrEqual(p.TotalAmount))
				assert.False(t, p.FinalAmount.IsNegative())
				if c != nil && c.MaxDiscountAmount != nil {
					assert.True(t, p.Discount.LessThanOrEqual(*c.MaxDiscountAmount))
				}
			}
		}
	}
}

func TestOfferPrice(t *testing.T) {
	offer := OfferPrice(d(100), d(20))
	if assert.NotNil(t, offer) {
		assertDec(t, 80, *offer)
	}
	assert.Nil(t, OfferPrice(d(100), d(0)))
	assert.Nil(t, OfferPrice(d(100), d(-5)))

	offer = OfferPrice(decimal.RequireFromString("99.99"), decimal.RequireFromString("12.5"))
	if assert.NotNil(t, offer) {
		assert.Equal(t, "87.49", offer.Round(2).String())
	}
}
