package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FlashSale struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	StartsAt           time.Time       `json:"startsAt"`
	EndsAt             *time.Time      `json:"endsAt,omitempty"`
	CreatedBy          uuid.UUID       `json:"createdBy"`
	CreatedAt          time.Time       `json:"createdAt"`
}

func (f *FlashSale) Validate() error {
	if f.ProductID == uuid.Nil {
		return InvalidInput("flash sale product is required")
	}
	if f.DiscountPercentage.IsNegative() || f.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return InvalidInput("discountPercentage must be between 0 and 100")
	}
	if f.EndsAt != nil && f.EndsAt.Before(f.StartsAt) {
		return InvalidInput("endsAt must be after startsAt")
	}
	return nil
}

// ActiveAt reports whether the sale window contains t.
func (f *FlashSale) ActiveAt(t time.Time) bool {
	if t.Before(f.StartsAt) {
		return false
	}
	return f.EndsAt == nil || !t.After(*f.EndsAt)
}
