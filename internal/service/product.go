package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rental-marketplace-backend/internal/cache"
	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/geocode"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/query"
	"rental-marketplace-backend/internal/repository"
	"rental-marketplace-backend/internal/utils"
)

const (
	TrendingWindow       = 30 * 24 * time.Hour
	DefaultTrendingLimit = 10
	trendingCachePrefix  = "trending"
)

type productService struct {
	productRepo   repository.ProductRepository
	flashSaleRepo repository.FlashSaleRepository
	orderRepo     repository.OrderRepository
	userRepo      repository.UserRepository
	geocoder      geocode.Geocoder
	cache         cache.Cache
	trendingTTL   time.Duration
	now           func() time.Time
}

func NewProductService(
	productRepo repository.ProductRepository,
	flashSaleRepo repository.FlashSaleRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	geocoder geocode.Geocoder,
	c cache.Cache,
	trendingTTL time.Duration,
) ProductService {
	if geocoder == nil {
		geocoder = geocode.Noop{}
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &productService{
		productRepo:   productRepo,
		flashSaleRepo: flashSaleRepo,
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		geocoder:      geocoder,
		cache:         c,
		trendingTTL:   trendingTTL,
		now:           time.Now,
	}
}

func (s *productService) CreateProduct(ctx context.Context, actor domain.Actor, p *domain.Product) (created *domain.Product, err error) {
	defer logger.Tracked("productService.CreateProduct", &err, "landlord", actor.UserID)()

	p.ID = uuid.Nil
	p.LandlordID = actor.UserID
	p.IsActive = true
	p.AverageRating, p.RatingCount, p.NumberOfReviews = 0, 0, 0
	if p.Slug == "" {
		p.Slug = domain.Slugify(p.Name)
	}
	if p.Category == "" {
		p.Category = p.PropertyType
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		return nil, domain.InvalidInput("product name must contain at least one letter or digit")
	}

	s.locate(ctx, p)

	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// locate fills in coordinates. Geocoding failures never block a write.
func (s *productService) locate(ctx context.Context, p *domain.Product) {
	coords, err := s.geocoder.Geocode(ctx, p.Location)
	if err != nil {
		logger.WarnContext(ctx, "geocoding failed, saving without coordinates", "slug", p.Slug, "error", err)
		p.Location.Coordinates = nil
		return
	}
	p.Location.Coordinates = coords
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductView, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.PreconditionFailed("product %s is not active", id)
	}
	views, err := s.withOfferPrices(ctx, []domain.Product{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// editable loads a product the actor may change: its landlord or an admin,
// with an active account.
func (s *productService) editable(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Product, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.PreconditionFailed("user account is not active")
	}
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.LandlordID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.Forbidden("product %s belongs to another landlord", id)
	}
	return p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ProductPatch) (updated *domain.Product, err error) {
	defer logger.Tracked("productService.UpdateProduct", &err, "productID", id)()

	p, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if patch.Location != nil {
		s.locate(ctx, p)
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) (err error) {
	defer logger.Tracked("productService.DeleteProduct", &err, "productID", id)()

	if _, err := s.editable(ctx, actor, id); err != nil {
		return err
	}
	return s.productRepo.SetActive(ctx, id, false)
}

func (s *productService) QueryProducts(ctx context.Context, q query.ProductQuery) (page *ProductPage, err error) {
	defer logger.Tracked("productService.QueryProducts", &err, "page", q.Page, "limit", q.Limit)()

	products, err := s.productRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	views, err := s.withOfferPrices(ctx, products)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Meta: newMeta(q.Page, q.Limit, total), Result: views}, nil
}

func (s *productService) ListMyProducts(ctx context.Context, actor domain.Actor, q query.ProductQuery) (*ProductPage, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.PreconditionFailed("user account is not active")
	}
	return s.QueryProducts(ctx, q.With("landlord", actor.UserID))
}

// withOfferPrices attaches the offer price of each product's active flash
// sale using one batched lookup.
func (s *productService) withOfferPrices(ctx context.Context, products []domain.Product) ([]domain.ProductView, error) {
	discounts, err := s.discounts(ctx, productIDs(products))
	if err != nil {
		return nil, err
	}
	views := make([]domain.ProductView, len(products))
	for i, p := range products {
		views[i] = domain.ProductView{Product: p, OfferPrice: utils.OfferPrice(p.Price, discounts[p.ID])}
	}
	return views, nil
}

func (s *productService) discounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}
	return s.flashSaleRepo.FindActiveByProductIDs(ctx, ids, s.now().UTC())
}

func productIDs(products []domain.Product) []uuid.UUID {
	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TrendingCacheKey(limit int) string {
	return cache.Key(trendingCachePrefix, map[string]string{"limit": strconv.Itoa(limit)})
}

// GetTrendingProducts ranks products by quantity ordered over the last 30
// days. Cache failures fall through to the store.
func (s *productService) GetTrendingProducts(ctx context.Context, limit int) (trending []domain.TrendingProduct, err error) {
	defer logger.Tracked("productService.GetTrendingProducts", &err, "limit", limit)()

	if limit < 1 {
		limit = DefaultTrendingLimit
	}
	key := TrendingCacheKey(limit)

	var cached []domain.TrendingProduct
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.WarnContext(ctx, "trending cache read failed", "error", err)
	} else if found {
		return cached, nil
	}

	trending, err = s.orderRepo.Trending(ctx, s.now().UTC().Add(-TrendingWindow), limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(trending))
	for i, t := range trending {
		ids[i] = t.ProductID
	}
	discounts, err := s.discounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range trending {
		trending[i].OfferPrice = utils.OfferPrice(trending[i].Price, discounts[trending[i].ProductID])
	}

	if s.trendingTTL > 0 {
		if err := s.cache.Set(ctx, key, trending, s.trendingTTL); err != nil {
			logger.WarnContext(ctx, "trending cache write failed", "error", err)
		}
	}
	return trending, nil
}
