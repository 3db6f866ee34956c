package postgres

import (
	"context"
	"database/sql/driver"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/query"
)

var productColumnNames = []string{"id", "name", "slug", "description", "price", "security_deposit", "application_fee",
	"beds", "baths", "square_feet", "image_urls", "amenities", "highlights", "property_type", "category", "brand", "stock",
	"is_pets_allowed", "is_parking_included", "is_active", "landlord_id", "average_rating", "rating_count",
	"number_of_reviews", "address", "city", "state", "country", "postal_code", "longitude", "latitude", "key_features",
	"created_at", "updated_at"}

func productRow(rows *sqlmock.Rows, id uuid.UUID, name string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id.String(), name, domain.Slugify(name), "desc", "1200.00", "500", "50",
		2, 1, 850, "{a.jpg,b.jpg}", "Gym", "Quiet", "Apartment", "Apartment", "", 1,
		true, false, true, uuid.New().String(), 4.5, 10, 3,
		"1 Main St", "Austin", "TX", "US", "73301", -97.74, 30.27, "{balcony}",
		now, now)
}

func TestBuildProductWhere_Defaults(t *testing.T) {
	where, args := buildProductWhere(query.ParseProductQuery(url.Values{}))
	assert.Equal(t, " WHERE price >= $1 AND square_feet >= $2", where)
	assert.Equal(t, []interface{}{0.0, 0.0}, args)
}

func TestBuildProductWhere_Combined(t *testing.T) {
	q := query.ParseProductQuery(url.Values{
		"searchTerm": {"loft"},
		"beds[gte]":  {"2"},
		"categories": {"Apartment,Villa"},
		"inStock":    {"true"},
		"maxPrice":   {"2000"},
	})
	where, args := buildProductWhere(q)

	assert.Equal(t, " WHERE (name ILIKE $1 OR description ILIKE $2) AND beds >= $3 AND category = ANY($4)"+
		" AND stock > 0 AND price >= $5 AND price <= $6 AND square_feet >= $7", where)
	require.Len(t, args, 7)
	assert.Equal(t, "%loft%", args[0])
	assert.Equal(t, 2, args[2])
	assert.Equal(t, 2000.0, args[5])
}

func TestBuildProductWhere_Ratings(t *testing.T) {
	where, args := buildProductWhere(query.ParseProductQuery(url.Values{"ratings": {"4,abc"}}))
	assert.Equal(t, " WHERE average_rating = ANY($1) AND price >= $2 AND square_feet >= $3", where)
	v, err := args[0].(driver.Valuer).Value()
	require.NoError(t, err)
	assert.Equal(t, "{4}", v)

	// only unparsable ratings: an empty set that matches nothing
	where, args = buildProductWhere(query.ParseProductQuery(url.Values{"ratings": {"abc"}}))
	assert.Equal(t, " WHERE average_rating = ANY($1) AND price >= $2 AND square_feet >= $3", where)
	v, err = args[0].(driver.Valuer).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestBuildProductWhere_Location(t *testing.T) {
	q := query.ParseProductQuery(url.Values{"location": {"50%_off"}})
	where, args := buildProductWhere(q)
	assert.Contains(t, where, "(address ILIKE $1 OR city ILIKE $2 OR state ILIKE $3 OR country ILIKE $4)")
	assert.Equal(t, `%50\%\_off%`, args[0])
}

func TestBuildProductOrder(t *testing.T) {
	assert.Equal(t, " ORDER BY created_at DESC, id ASC", buildProductOrder(query.ParseProductQuery(url.Values{}).Sort))
	q := query.ParseProductQuery(url.Values{"sort": {"price,-beds"}})
	assert.Equal(t, " ORDER BY price ASC, beds DESC, id ASC", buildProductOrder(q.Sort))
}

func TestProductRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(productRow(sqlmock.NewRows(productColumnNames), id, "Sunny Loft"))

		p, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, "sunny-loft", p.Slug)
		assert.Equal(t, "1200", p.Price.String())
		assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.ImageURLs)
		require.NotNil(t, p.Location.Coordinates)
		assert.Equal(t, 30.27, p.Location.Coordinates.Latitude)
	})

	t.Run("NotFound", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(productColumnNames))

		p, err := repo.GetByID(ctx, id)
		assert.Nil(t, p)
		assert.True(t, domain.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	q := query.ParseProductQuery(url.Values{"page": {"2"}, "limit": {"5"}})

	rows := sqlmock.NewRows(productColumnNames)
	productRow(rows, uuid.New(), "One")
	productRow(rows, uuid.New(), "Two")
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE price >= $1 AND square_feet >= $2 ORDER BY created_at DESC, id ASC LIMIT $3 OFFSET $4")).
		WithArgs(0.0, 0.0, 5, 5).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM products WHERE price >= $1")).
		WithArgs(0.0, 0.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	products, err := repo.Find(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	total, err := repo.Count(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_SetActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	id := uuid.New()

	mock.ExpectExec("UPDATE products SET is_active").
		WithArgs(false, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetActive(context.Background(), id, false)
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
