package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/query"
	"rental-marketplace-backend/internal/repository"
)

const productColumns = `id, name, slug, description, price, security_deposit, application_fee,
	beds, baths, square_feet, image_urls, amenities, highlights, property_type, category, brand, stock,
	is_pets_allowed, is_parking_included, is_active, landlord_id, average_rating, rating_count, number_of_reviews,
	address, city, state, country, postal_code, longitude, latitude, key_features, created_at, updated_at`

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	var lng, lat sql.NullFloat64
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.SecurityDeposit, &p.ApplicationFee,
		&p.Beds, &p.Baths, &p.SquareFeet, pq.Array(&p.ImageURLs), &p.Amenities, &p.Highlights, &p.PropertyType,
		&p.Category, &p.Brand, &p.Stock, &p.IsPetsAllowed, &p.IsParkingIncluded, &p.IsActive, &p.LandlordID,
		&p.AverageRating, &p.RatingCount, &p.NumberOfReviews, &p.Location.Address, &p.Location.City,
		&p.Location.State, &p.Location.Country, &p.Location.PostalCode, &lng, &lat, pq.Array(&p.KeyFeatures),
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lng.Valid && lat.Valid {
		p.Location.Coordinates = &domain.Coordinates{Longitude: lng.Float64, Latitude: lat.Float64}
	}
	return p, nil
}

func coordinateArgs(c *domain.Coordinates) (interface{}, interface{}) {
	if c == nil {
		return nil, nil
	}
	return c.Longitude, c.Latitude
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, name, slug, description, price, security_deposit, application_fee,
	          beds, baths, square_feet, image_urls, amenities, highlights, property_type, category, brand, stock,
	          is_pets_allowed, is_parking_included, is_active, landlord_id, address, city, state, country,
	          postal_code, longitude, latitude, key_features, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
	          $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	lng, lat := coordinateArgs(p.Location.Coordinates)

	logger.DatabaseCall("products.create", "INSERT INTO products", "slug", p.Slug)
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Slug, p.Description, p.Price, p.SecurityDeposit,
		p.ApplicationFee, p.Beds, p.Baths, p.SquareFeet, pq.Array(p.ImageURLs), p.Amenities, p.Highlights,
		p.PropertyType, p.Category, p.Brand, p.Stock, p.IsPetsAllowed, p.IsParkingIncluded, p.IsActive,
		p.LandlordID, p.Location.Address, p.Location.City, p.Location.State, p.Location.Country,
		p.Location.PostalCode, lng, lat, pq.Array(p.KeyFeatures), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		logger.DatabaseResult("products.create", 0, err)
		return translateError(err, "product", p.Slug)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("products.create", n, nil)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "product", id.String())
	}
	return p, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, translateError(err, "product", slug)
	}
	return p, nil
}

// Update rewrites the mutable columns. Slug and review stats are left alone.
func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name=$1, description=$2, price=$3, security_deposit=$4, application_fee=$5,
	          beds=$6, baths=$7, square_feet=$8, image_urls=$9, amenities=$10, highlights=$11, property_type=$12,
	          category=$13, brand=$14, stock=$15, is_pets_allowed=$16, is_parking_included=$17, is_active=$18,
	          address=$19, city=$20, state=$21, country=$22, postal_code=$23, longitude=$24, latitude=$25,
	          key_features=$26, updated_at=$27 WHERE id=$28`
	p.UpdatedAt = time.Now().UTC()
	lng, lat := coordinateArgs(p.Location.Coordinates)
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Price, p.SecurityDeposit, p.ApplicationFee,
		p.Beds, p.Baths, p.SquareFeet, pq.Array(p.ImageURLs), p.Amenities, p.Highlights, p.PropertyType,
		p.Category, p.Brand, p.Stock, p.IsPetsAllowed, p.IsParkingIncluded, p.IsActive, p.Location.Address,
		p.Location.City, p.Location.State, p.Location.Country, p.Location.PostalCode, lng, lat,
		pq.Array(p.KeyFeatures), p.UpdatedAt, p.ID)
	if err != nil {
		return translateError(err, "product", p.ID.String())
	}
	return requireAffected(res, "product", p.ID.String())
}

func (r *productRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE products SET is_active = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res, "product", id.String())
}

func (r *productRepository) Find(ctx context.Context, q query.ProductQuery) ([]domain.Product, error) {
	where, args := buildProductWhere(q)
	sqlStr := `SELECT ` + productColumns + ` FROM products` + where + buildProductOrder(q.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	logger.DatabaseCall("products.find", sqlStr, "args", len(args))
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		logger.DatabaseResult("products.find", 0, err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("products.find", int64(len(products)), nil)
	return products, nil
}

func (r *productRepository) Count(ctx context.Context, q query.ProductQuery) (int64, error) {
	where, args := buildProductWhere(q)
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// translateError maps driver errors onto domain errors.
func translateError(err error, resource, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(resource, id)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.Conflict("%s %s already exists", resource, id)
	}
	return err
}

func requireAffected(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(resource, id)
	}
	return nil
}
