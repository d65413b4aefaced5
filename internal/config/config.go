// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port        string
	StoreDriver string
	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins       []string
	DefaultAdminEmail string

	DeliveryCharge   decimal.Decimal
	DeliveryLeadTime time.Duration
	CartSessionTTL   time.Duration

	LogLevel      string
	EnableTracing bool
}

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:          mongoURI(),
		MongoDBName:       getEnv("MONGO_DB_NAME", "greengrocer"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         getEnv("JWT_SECRET", "SECRET"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		DefaultAdminEmail: os.Getenv("DEFAULT_ADMIN_EMAIL"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		EnableTracing:     os.Getenv("ENABLE_TRACING") == "1",
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.DeliveryLeadTime, err = durationEnv("DELIVERY_LEAD_TIME", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.CartSessionTTL, err = durationEnv("CART_SESSION_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.DeliveryCharge, err = decimal.NewFromString(getEnv("DELIVERY_CHARGE", "12")); err != nil {
		return Config{}, fmt.Errorf("invalid DELIVERY_CHARGE: %w", err)
	}
	if cfg.DeliveryCharge.IsNegative() {
		return Config{}, fmt.Errorf("invalid DELIVERY_CHARGE: must not be negative")
	}

	switch cfg.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: want %s or %s", cfg.StoreDriver, DriverMongo, DriverMemory)
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func mongoURI() string {
	if uri := os.Getenv("MONGO_PUBLIC_URL"); uri != "" {
		return uri
	}
	return getEnv("MONGO_URL", "mongodb://localhost:27017")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
