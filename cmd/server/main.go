package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	grpcapi "rental-marketplace-backend/internal/api/grpc"
	httpapi "rental-marketplace-backend/internal/api/http"
	"rental-marketplace-backend/internal/cache"
	"rental-marketplace-backend/internal/config"
	"rental-marketplace-backend/internal/events"
	"rental-marketplace-backend/internal/geocode"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/repository/postgres"
	"rental-marketplace-backend/internal/security"
	"rental-marketplace-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rental Marketplace Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Monetary amounts are JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize Database
	db, err := postgres.Open(cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize Cache
	var trendingCache cache.Cache = cache.Noop{}
	if cfg.Cache.RedisAddr != "" {
		rdb := cache.NewRedisClient(cache.Options{Addr: cfg.Cache.RedisAddr, Password: cfg.Cache.RedisPassword, DB: cfg.Cache.RedisDB})
		defer rdb.Close()
		trendingCache = cache.NewRedisCache(rdb)
		logger.Info("Using Redis trending cache", "addr", cfg.Cache.RedisAddr, "ttl", cfg.TrendingTTL())
	}

	// Initialize Events
	publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
	defer publisher.Close()
	if len(cfg.Kafka.Brokers) > 0 {
		logger.Info("Publishing order events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.OrderTopic)
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	if emailSvc == nil {
		logger.Warn("SendGrid API key not configured, order confirmations disabled")
	}

	geocoder := geocode.New(geocode.Config{
		BaseURL:     cfg.Geocode.BaseURL,
		APIKey:      cfg.Geocode.APIKey,
		MaxAttempts: cfg.Geocode.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Geocode.BaseDelayMs) * time.Millisecond,
	}, nil)

	delivery, err := decimal.NewFromString(cfg.Pricing.FlatDeliveryCharge)
	if err != nil {
		log.Fatalf("Invalid delivery charge: %v", err)
	}

	// Initialize Services
	authSvc := service.NewAuthService(store.Users, tokenManager)
	productSvc := service.NewProductService(
		store.Products,
		store.FlashSales,
		store.Orders,
		store.Users,
		geocoder,
		trendingCache,
		cfg.TrendingTTL(),
	)
	orderSvc := service.NewOrderService(
		store.Orders,
		store.Products,
		store.Coupons,
		store.Users,
		service.FlatDeliveryCharge(delivery),
		publisher,
		emailSvc,
	)
	promotionSvc := service.NewPromotionService(store.Coupons, store.FlashSales, store.Products)

	// Set up HTTP server
	router := httpapi.NewRouter(tokenManager, httpapi.Services{
		Auth:       authSvc,
		Products:   productSvc,
		Orders:     orderSvc,
		Promotions: promotionSvc,
	})
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up gRPC health server
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		grpcServer, healthServer := grpcapi.NewServer(tokenManager)
		go grpcapi.WatchDatabase(ctx, healthServer, store.DB(), 15*time.Second)
		go func() {
			logger.Info("gRPC health server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
		defer grpcServer.GracefulStop()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutting down", "signal", sig.String())

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
