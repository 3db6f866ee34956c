package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"rental-marketplace-backend/internal/repository"
)

// Store bundles every repository backed by one connection pool.
type Store struct {
	db         *sql.DB
	Users      repository.UserRepository
	Products   repository.ProductRepository
	Coupons    repository.CouponRepository
	FlashSales repository.FlashSaleRepository
	Orders     repository.OrderRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Products:   NewProductRepository(db),
		Coupons:    NewCouponRepository(db),
		FlashSales: NewFlashSaleRepository(db),
		Orders:     NewOrderRepository(db),
	}
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB { return s.db }
