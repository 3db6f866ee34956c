package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/repository"
)

type flashSaleRepository struct {
	db *sql.DB
}

func NewFlashSaleRepository(db *sql.DB) repository.FlashSaleRepository {
	return &flashSaleRepository{db: db}
}

func (r *flashSaleRepository) Create(ctx context.Context, f *domain.FlashSale) error {
	query := `INSERT INTO flash_sales (id, product_id, discount_percentage, starts_at, ends_at, created_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, f.ID, f.ProductID, f.DiscountPercentage, f.StartsAt, f.EndsAt, f.CreatedBy, f.CreatedAt)
	return translateError(err, "flash sale", f.ProductID.String())
}

// FindActiveByProductIDs resolves one discount per product. When several
// sales overlap, the most recently started one wins.
func (r *flashSaleRepository) FindActiveByProductIDs(ctx context.Context, ids []uuid.UUID, now time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query := `SELECT DISTINCT ON (product_id) product_id, discount_percentage
	          FROM flash_sales
	          WHERE product_id = ANY($1::uuid[]) AND discount_percentage > 0
	            AND starts_at <= $2 AND (ends_at IS NULL OR ends_at >= $2)
	          ORDER BY product_id, starts_at DESC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(strIDs), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var pct decimal.Decimal
		if err := rows.Scan(&id, &pct); err != nil {
			return nil, err
		}
		result[id] = pct
	}
	return result, rows.Err()
}

func (r *flashSaleRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flash_sales WHERE ends_at IS NOT NULL AND ends_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
