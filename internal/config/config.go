package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel  string
	LogFormat string

	SeedDemoData bool

	Pricing   PricingConfig
	RateLimit RateLimitConfig
}

// RateLimitConfig bounds how fast a single client can request quotes.
// Disabled unless redis is configured.
type RateLimitConfig struct {
	Enabled    bool
	QuoteRate  float64
	QuoteBurst int
}

// PricingConfig carries the tunables of the pricing engine.
type PricingConfig struct {
	ProfitMargin        float64
	UsefulLifeYears     float64
	DefaultBasePrice    float64
	MinPriceFactor      float64
	MaxPriceFactor      float64
	DemandFreshness     time.Duration
	UtilizationLookback time.Duration
	SnapshotRetention   time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "fleetrate"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "fleetrate"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		SeedDemoData: getenvBool("SEED_DEMO_DATA", false),

		RateLimit: RateLimitConfig{
			Enabled:    getenvBool("RATE_LIMIT_ENABLED", false),
			QuoteRate:  getenvFloat("RATE_LIMIT_QUOTE_RATE", 10),
			QuoteBurst: getenvInt("RATE_LIMIT_QUOTE_BURST", 20),
		},

		Pricing: PricingConfig{
			ProfitMargin:        getenvFloat("PRICING_PROFIT_MARGIN", 1.40),
			UsefulLifeYears:     getenvFloat("PRICING_USEFUL_LIFE_YEARS", 10),
			DefaultBasePrice:    getenvFloat("PRICING_DEFAULT_BASE_PRICE", 50),
			MinPriceFactor:      getenvFloat("PRICING_MIN_PRICE_FACTOR", 0.6),
			MaxPriceFactor:      getenvFloat("PRICING_MAX_PRICE_FACTOR", 2.5),
			DemandFreshness:     getenvDuration("PRICING_DEMAND_FRESHNESS", 15*time.Minute),
			UtilizationLookback: getenvDuration("PRICING_UTILIZATION_LOOKBACK", 90*24*time.Hour),
			SnapshotRetention:   getenvDuration("PRICING_SNAPSHOT_RETENTION", 90*24*time.Hour),
		},
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return parsed
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return parsed
}
