package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-marketplace-backend/internal/config"
	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/repository/postgres"
	"rental-marketplace-backend/internal/service"
)

type mockCoupons struct{ mock.Mock }

func (m *mockCoupons) Create(ctx context.Context, c *domain.Coupon) error { return m.Called(ctx, c).Error(0) }
func (m *mockCoupons) GetByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Coupon)
	return c, args.Error(1)
}
func (m *mockCoupons) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*domain.Coupon)
	return c, args.Error(1)
}
func (m *mockCoupons) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockFlashSales struct{ mock.Mock }

func (m *mockFlashSales) Create(ctx context.Context, f *domain.FlashSale) error {
	return m.Called(ctx, f).Error(0)
}
func (m *mockFlashSales) FindActiveByProductIDs(ctx context.Context, ids []uuid.UUID, now time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, ids, now)
	out, _ := args.Get(0).(map[uuid.UUID]decimal.Decimal)
	return out, args.Error(1)
}
func (m *mockFlashSales) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// trendingOnly is a ProductService whose only live method is
// GetTrendingProducts.
type trendingOnly struct {
	service.ProductService
	mock.Mock
}

func (m *trendingOnly) GetTrendingProducts(ctx context.Context, limit int) ([]domain.TrendingProduct, error) {
	args := m.Called(ctx, limit)
	out, _ := args.Get(0).([]domain.TrendingProduct)
	return out, args.Error(1)
}

type recordingCache struct {
	deleted []string
	err     error
}

func (c *recordingCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (c *recordingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (c *recordingCache) Delete(_ context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return c.err
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	coupons    *mockCoupons
	flashSales *mockFlashSales
	products   *trendingOnly
	cache      *recordingCache
	runner     *JobRunner
}

func newFixture() *fixture {
	f := &fixture{
		coupons:    new(mockCoupons),
		flashSales: new(mockFlashSales),
		products:   new(trendingOnly),
		cache:      &recordingCache{},
	}
	store := &postgres.Store{Coupons: f.coupons, FlashSales: f.flashSales}
	f.runner = NewJobRunner(store, &Services{Products: f.products}, f.cache, &config.Config{})
	f.runner.now = func() time.Time { return fixedNow }
	return f
}

func TestDeactivateExpiredCoupons(t *testing.T) {
	f := newFixture()
	f.coupons.On("DeactivateExpired", mock.Anything, fixedNow).Return(int64(3), nil)

	f.runner.DeactivateExpiredCoupons()
	f.coupons.AssertExpectations(t)
}

func TestPurgeExpiredFlashSales_ErrorIsLogged(t *testing.T) {
	f := newFixture()
	f.flashSales.On("DeleteExpired", mock.Anything, fixedNow).Return(int64(0), errors.New("db down"))

	assert.NotPanics(t, f.runner.PurgeExpiredFlashSales)
	f.flashSales.AssertExpectations(t)
}

func TestWarmTrendingCache(t *testing.T) {
	f := newFixture()
	f.cache.err = errors.New("redis down")
	f.products.On("GetTrendingProducts", mock.Anything, service.DefaultTrendingLimit).
		Return([]domain.TrendingProduct{{ProductID: uuid.New(), OrderCount: 4}}, nil)

	f.runner.WarmTrendingCache()

	assert.Equal(t, []string{service.TrendingCacheKey(service.DefaultTrendingLimit)}, f.cache.deleted)
	f.products.AssertExpectations(t)
}

func TestRunWithRecovery_SwallowsPanic(t *testing.T) {
	f := newFixture()
	assert.NotPanics(t, func() {
		f.runner.runWithRecovery("boom", func() { panic("boom") })
	})
}

func TestRun(t *testing.T) {
	f := newFixture()
	f.coupons.On("DeactivateExpired", mock.Anything, fixedNow).Return(int64(0), nil)
	f.flashSales.On("DeleteExpired", mock.Anything, fixedNow).Return(int64(1), nil)
	f.products.On("GetTrendingProducts", mock.Anything, service.DefaultTrendingLimit).Return(nil, nil)

	require.NoError(t, f.runner.Run(JobDeactivateExpiredCoupons))
	f.coupons.AssertNumberOfCalls(t, "DeactivateExpired", 1)

	require.NoError(t, f.runner.Run(JobAll))
	f.coupons.AssertNumberOfCalls(t, "DeactivateExpired", 2)
	f.flashSales.AssertNumberOfCalls(t, "DeleteExpired", 1)
	f.products.AssertNumberOfCalls(t, "GetTrendingProducts", 1)

	assert.Error(t, f.runner.Run("reticulate-splines"))
	assert.Equal(t, []string{JobDeactivateExpiredCoupons, JobPurgeExpiredFlashSales, JobWarmTrendingCache}, f.runner.Names())
}

