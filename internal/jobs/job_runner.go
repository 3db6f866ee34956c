package jobs

import (
	"fmt"
	"sort"
	"time"

	"rental-marketplace-backend/internal/cache"
	"rental-marketplace-backend/internal/config"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/repository/postgres"
	"rental-marketplace-backend/internal/service"
)

// Job names accepted by Run.
const (
	JobDeactivateExpiredCoupons = "deactivate-expired-coupons"
	JobPurgeExpiredFlashSales   = "purge-expired-flash-sales"
	JobWarmTrendingCache        = "warm-trending-cache"
	JobAll                      = "all"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    *postgres.Store
	services *Services
	cache    cache.Cache
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Products service.ProductService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, services *Services, c cache.Cache, cfg *config.Config) *JobRunner {
	if c == nil {
		c = cache.Noop{}
	}
	return &JobRunner{
		store:    store,
		services: services,
		cache:    c,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config { return jr.config }

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	jobFunc()
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

func (jr *JobRunner) registry() map[string]func() {
	return map[string]func(){
		JobDeactivateExpiredCoupons: jr.DeactivateExpiredCoupons,
		JobPurgeExpiredFlashSales:   jr.PurgeExpiredFlashSales,
		JobWarmTrendingCache:        jr.WarmTrendingCache,
	}
}

// Names lists the jobs Run accepts besides JobAll.
func (jr *JobRunner) Names() []string {
	names := make([]string, 0, 3)
	for name := range jr.registry() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes one named job, or every job for JobAll.
func (jr *JobRunner) Run(name string) error {
	if name == JobAll {
		jr.RunAll()
		return nil
	}
	job, ok := jr.registry()[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	job()
	return nil
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.DeactivateExpiredCoupons()
	jr.PurgeExpiredFlashSales()
	jr.WarmTrendingCache()
}
