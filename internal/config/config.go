package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Cache     CacheConfig     `yaml:"cache"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Geocode   GeocodeConfig   `yaml:"geocode"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort int    `yaml:"grpc_port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

type PricingConfig struct {
	FlatDeliveryCharge string `yaml:"flat_delivery_charge"`
}

// CacheConfig points at the Redis instance holding the trending cache.
// An empty address disables caching.
type CacheConfig struct {
	RedisAddr          string `yaml:"redis_addr"`
	RedisPassword      string `yaml:"redis_password"`
	RedisDB            int    `yaml:"redis_db"`
	TrendingTTLSeconds int    `yaml:"trending_ttl_seconds"`
}

// KafkaConfig configures order event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	OrderTopic string   `yaml:"order_topic"`
}

// SendGridConfig configures order confirmation mail. No key disables it.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// GeocodeConfig configures address lookup. No base URL disables it.
type GeocodeConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	MaxAttempts int    `yaml:"max_attempts"`
	BaseDelayMs int    `yaml:"base_delay_ms"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	DeactivateExpiredCoupons string `yaml:"deactivate_expired_coupons"`
	PurgeExpiredFlashSales   string `yaml:"purge_expired_flash_sales"`
	WarmTrendingCache        string `yaml:"warm_trending_cache"`
}

// Load reads configuration from a YAML file, then applies .env and
// environment overrides.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// a missing .env is fine
	_ = godotenv.Load()
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)

	envString("JWT_SECRET", &c.JWT.Secret)

	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)
	envInt("SERVER_GRPC_PORT", &c.Server.GRPCPort)

	envString("REDIS_ADDR", &c.Cache.RedisAddr)
	envString("REDIS_PASSWORD", &c.Cache.RedisPassword)
	envInt("REDIS_DB", &c.Cache.RedisDB)

	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		c.Kafka.Brokers = strings.Split(val, ",")
	}

	envString("SENDGRID_API_KEY", &c.SendGrid.APIKey)

	envString("GEOCODE_BASE_URL", &c.Geocode.BaseURL)
	envString("GEOCODE_API_KEY", &c.Geocode.APIKey)

	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRPCPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Pricing.FlatDeliveryCharge == "" {
		c.Pricing.FlatDeliveryCharge = "0"
	}
	if _, err := strconv.ParseFloat(c.Pricing.FlatDeliveryCharge, 64); err != nil {
		return fmt.Errorf("invalid flat delivery charge: %q", c.Pricing.FlatDeliveryCharge)
	}

	if c.Cache.TrendingTTLSeconds == 0 {
		c.Cache.TrendingTTLSeconds = 300
	}
	if c.Kafka.OrderTopic == "" {
		c.Kafka.OrderTopic = "orders"
	}
	if c.SendGrid.APIKey != "" && c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required when api_key is set")
	}
	if c.Geocode.MaxAttempts == 0 {
		c.Geocode.MaxAttempts = 3
	}
	if c.Geocode.BaseDelayMs == 0 {
		c.Geocode.BaseDelayMs = 200
	}

	if c.Scheduler.DeactivateExpiredCoupons == "" {
		c.Scheduler.DeactivateExpiredCoupons = "0 0 * * * *" // hourly
	}
	if c.Scheduler.PurgeExpiredFlashSales == "" {
		c.Scheduler.PurgeExpiredFlashSales = "0 30 3 * * *" // 3:30 AM UTC
	}
	if c.Scheduler.WarmTrendingCache == "" {
		c.Scheduler.WarmTrendingCache = "0 */5 * * * *"
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the health server address, or "" when disabled.
func (c *Config) GetGRPCAddress() string {
	if c.Server.GRPCPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

func (c *Config) TrendingTTL() time.Duration {
	return time.Duration(c.Cache.TrendingTTLSeconds) * time.Second
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}
