package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rental-marketplace-backend/internal/config"
	"rental-marketplace-backend/internal/jobs"
	"rental-marketplace-backend/internal/repository/postgres"
)

func newRunner(sc config.SchedulerConfig) *jobs.JobRunner {
	return jobs.NewJobRunner(&postgres.Store{}, &jobs.Services{}, nil, &config.Config{Scheduler: sc})
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	s := NewScheduler(newRunner(config.SchedulerConfig{
		DeactivateExpiredCoupons: "0 0 * * * *",
		PurgeExpiredFlashSales:   "0 30 3 * * *",
		WarmTrendingCache:        "0 */5 * * * *",
	}))
	assert.True(t, s.IsRunning())
	assert.Len(t, s.cron.Entries(), 3)
}

func TestNewScheduler_SkipsInvalidSchedule(t *testing.T) {
	s := NewScheduler(newRunner(config.SchedulerConfig{
		DeactivateExpiredCoupons: "0 0 * * * *",
		PurgeExpiredFlashSales:   "every tuesday",
		WarmTrendingCache:        "0 */5 * * * *",
	}))
	assert.Len(t, s.cron.Entries(), 2)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(newRunner(config.SchedulerConfig{WarmTrendingCache: "0 0 1 1 1 *"}))
	s.Start()
	s.Stop()
	assert.Len(t, s.cron.Entries(), 1)
}
