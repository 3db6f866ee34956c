package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/repository"
)

const couponColumns = `id, code, discount_type, discount_value, min_order_amount, max_discount_amount,
	is_active, starts_at, expires_at, created_at`

type couponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) repository.CouponRepository {
	return &couponRepository{db: db}
}

func scanCoupon(row rowScanner) (*domain.Coupon, error) {
	c := &domain.Coupon{}
	var maxDiscount decimal.NullDecimal
	err := row.Scan(&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinOrderAmount, &maxDiscount,
		&c.IsActive, &c.StartsAt, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if maxDiscount.Valid {
		c.MaxDiscountAmount = &maxDiscount.Decimal
	}
	return c, nil
}

func (r *couponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	query := `INSERT INTO coupons (` + couponColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now().UTC()
	var maxDiscount decimal.NullDecimal
	if c.MaxDiscountAmount != nil {
		maxDiscount = decimal.NewNullDecimal(*c.MaxDiscountAmount)
	}
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Code, c.DiscountType, c.DiscountValue, c.MinOrderAmount,
		maxDiscount, c.IsActive, c.StartsAt, c.ExpiresAt, c.CreatedAt)
	return translateError(err, "coupon", c.Code)
}

func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "coupon", id.String())
	}
	return c, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = UPPER($1)`
	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, translateError(err, "coupon", code)
	}
	return c, nil
}

// DeactivateExpired switches off active coupons whose expiry has passed.
func (r *couponRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE coupons SET is_active = false WHERE is_active = true AND expires_at IS NOT NULL AND expires_at < $1`
	logger.DatabaseCall("coupons.deactivate_expired", query)
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		logger.DatabaseResult("coupons.deactivate_expired", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("coupons.deactivate_expired", n, err)
	return n, err
}
