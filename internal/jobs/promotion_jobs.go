package jobs

import (
	"context"

	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/service"
)

// DeactivateExpiredCoupons switches off active coupons past their expiry.
func (jr *JobRunner) DeactivateExpiredCoupons() {
	jr.runWithRecovery("DeactivateExpiredCoupons", func() {
		n, err := jr.store.Coupons.DeactivateExpired(context.Background(), jr.now().UTC())
		if err != nil {
			logger.Error("Failed to deactivate expired coupons", "error", err)
			return
		}
		logger.Info("Deactivated expired coupons", "count", n)
	})
}

// PurgeExpiredFlashSales deletes flash sales whose window has closed.
func (jr *JobRunner) PurgeExpiredFlashSales() {
	jr.runWithRecovery("PurgeExpiredFlashSales", func() {
		n, err := jr.store.FlashSales.DeleteExpired(context.Background(), jr.now().UTC())
		if err != nil {
			logger.Error("Failed to purge expired flash sales", "error", err)
			return
		}
		logger.Info("Purged expired flash sales", "count", n)
	})
}

// WarmTrendingCache drops the cached default trending list and recomputes it.
func (jr *JobRunner) WarmTrendingCache() {
	jr.runWithRecovery("WarmTrendingCache", func() {
		ctx := context.Background()
		if err := jr.cache.Delete(ctx, service.TrendingCacheKey(service.DefaultTrendingLimit)); err != nil {
			logger.Warn("Failed to drop trending cache entry", "error", err)
		}
		trending, err := jr.services.Products.GetTrendingProducts(ctx, service.DefaultTrendingLimit)
		if err != nil {
			logger.Error("Failed to warm trending cache", "error", err)
			return
		}
		logger.Info("Trending cache warmed", "products", len(trending))
	})
}
