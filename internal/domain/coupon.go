package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "Percentage"
	DiscountTypeFlat       DiscountType = "Flat"
)

type Coupon struct {
	ID                uuid.UUID        `json:"id"`
	Code              string           `json:"code"`
	DiscountType      DiscountType     `json:"discountType"`
	DiscountValue     decimal.Decimal  `json:"discountValue"`
	MinOrderAmount    decimal.Decimal  `json:"minOrderAmount"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount,omitempty"`
	IsActive          bool             `json:"isActive"`
	StartsAt          *time.Time       `json:"startsAt,omitempty"`
	ExpiresAt         *time.Time       `json:"expiresAt,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
}

func (c *Coupon) Validate() error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return InvalidInput("coupon code is required")
	}
	if c.DiscountType != DiscountTypePercentage && c.DiscountType != DiscountTypeFlat {
		return InvalidInput("discountType must be Percentage or Flat")
	}
	if !c.DiscountValue.IsPositive() {
		return InvalidInput("discountValue must be > 0")
	}
	if c.DiscountType == DiscountTypePercentage && c.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return InvalidInput("percentage discount cannot exceed 100")
	}
	if c.MinOrderAmount.IsNegative() {
		return InvalidInput("minOrderAmount must be >= 0")
	}
	if c.MaxDiscountAmount != nil && c.MaxDiscountAmount.IsNegative() {
		return InvalidInput("maxDiscountAmount must be >= 0")
	}
	if c.StartsAt != nil && c.ExpiresAt != nil && c.ExpiresAt.Before(*c.StartsAt) {
		return InvalidInput("expiresAt must be after startsAt")
	}
	return nil
}
