package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/repository"
)

const orderColumns = `id, user_id, coupon_id, total_amount, discount, delivery_charge, final_amount,
	status, payment_method, payment_status, created_at, updated_at`

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	o := &domain.Order{}
	var couponID uuid.NullUUID
	err := row.Scan(&o.ID, &o.UserID, &couponID, &o.TotalAmount, &o.Discount, &o.DeliveryCharge, &o.FinalAmount,
		&o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if couponID.Valid {
		o.CouponID = &couponID.UUID
	}
	return o, nil
}

func insertItems(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, items []domain.OrderItem) error {
	query := `INSERT INTO order_items (order_id, position, product_id, quantity, unit_price, color)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	for i, it := range items {
		if _, err := tx.ExecContext(ctx, query, orderID, i, it.ProductID, it.Quantity, it.UnitPrice, it.Color); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	logger.DatabaseCall("orders.create", "INSERT INTO orders", "items", len(o.Items))
	_, err = tx.ExecContext(ctx, query, o.ID, o.UserID, nullUUID(o.CouponID), o.TotalAmount, o.Discount,
		o.DeliveryCharge, o.FinalAmount, o.Status, o.PaymentMethod, o.PaymentStatus, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		logger.DatabaseResult("orders.create", 0, err)
		return err
	}
	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		logger.DatabaseResult("orders.create", 0, err)
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.DatabaseResult("orders.create", 1, nil)
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "order", id.String())
	}
	items, err := r.itemsFor(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *orderRepository) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	result := make(map[uuid.UUID][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}
	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	query := `SELECT order_id, product_id, quantity, unit_price, color FROM order_items
	          WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Color); err != nil {
			return nil, err
		}
		result[orderID] = append(result[orderID], it)
	}
	return result, rows.Err()
}

// UpdatePricing replaces the order's items and derived totals in one transaction.
func (r *orderRepository) UpdatePricing(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	o.UpdatedAt = time.Now().UTC()
	query := `UPDATE orders SET total_amount=$1, discount=$2, delivery_charge=$3, final_amount=$4, updated_at=$5
	          WHERE id=$6`
	res, err := tx.ExecContext(ctx, query, o.TotalAmount, o.Discount, o.DeliveryCharge, o.FinalAmount, o.UpdatedAt, o.ID)
	if err != nil {
		return err
	}
	if err := requireAffected(res, "order", o.ID.String()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	// empty values keep the stored status
	query := `UPDATE orders SET status = COALESCE(NULLIF($1, ''), status),
	          payment_status = COALESCE(NULLIF($2, ''), payment_status), updated_at = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, status, paymentStatus, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res, "order", id.String())
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Order, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	var ids []uuid.UUID
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, total, nil
}

// Trending ranks products by quantity ordered since the given instant.
func (r *orderRepository) Trending(ctx context.Context, since time.Time, limit int) ([]domain.TrendingProduct, error) {
	query := `SELECT p.id, SUM(oi.quantity) AS order_count, p.name, p.price, p.image_urls
	          FROM order_items oi
	          JOIN orders o ON o.id = oi.order_id
	          JOIN products p ON p.id = oi.product_id
	          WHERE o.created_at >= $1
	          GROUP BY p.id, p.name, p.price, p.image_urls
	          ORDER BY order_count DESC, p.id ASC
	          LIMIT $2`
	logger.DatabaseCall("orders.trending", query, "since", since)
	rows, err := r.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		logger.DatabaseResult("orders.trending", 0, err)
		return nil, err
	}
	defer rows.Close()

	trending := []domain.TrendingProduct{}
	for rows.Next() {
		var t domain.TrendingProduct
		if err := rows.Scan(&t.ProductID, &t.OrderCount, &t.Name, &t.Price, pq.Array(&t.ImageURLs)); err != nil {
			return nil, err
		}
		trending = append(trending, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("orders.trending", int64(len(trending)), nil)
	return trending, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
