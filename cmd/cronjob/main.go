package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rental-marketplace-backend/internal/cache"
	"rental-marketplace-backend/internal/config"
	"rental-marketplace-backend/internal/jobs"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/repository/postgres"
	"rental-marketplace-backend/internal/scheduler"
	"rental-marketplace-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'deactivate-expired-coupons', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rental Marketplace Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Open(cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	var trendingCache cache.Cache = cache.Noop{}
	if cfg.Cache.RedisAddr != "" {
		rdb := cache.NewRedisClient(cache.Options{Addr: cfg.Cache.RedisAddr, Password: cfg.Cache.RedisPassword, DB: cfg.Cache.RedisDB})
		defer rdb.Close()
		trendingCache = cache.NewRedisCache(rdb)
	}

	// Initialize Services
	productService := service.NewProductService(
		store.Products,
		store.FlashSales,
		store.Orders,
		store.Users,
		nil,
		trendingCache,
		cfg.TrendingTTL(),
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, &jobs.Services{Products: productService}, trendingCache, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(*runOnce); err != nil {
			logger.Error("Unknown job name", "job", *runOnce)
			fmt.Printf("Available jobs:\n")
			for _, name := range jobRunner.Names() {
				fmt.Printf("  - %s\n", name)
			}
			fmt.Printf("  - %s\n", jobs.JobAll)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
