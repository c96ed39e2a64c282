package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/circuitbreaker"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort           string
	APIBaseURL         string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	Shipping cart.ShippingPolicy
	Breaker  circuitbreaker.Settings

	RedisAddr     string // empty disables the catalog snapshot
	RedisPassword string

	LogLevel       string
	LogDevelopment bool
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		APIBaseURL:         getEnv("STOREFRONT_API_URL", "http://localhost:8000"),
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
		Breaker:            circuitbreaker.DefaultSettings("collaborator-api"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Breaker.Timeout, err = getDuration("BREAKER_OPEN_TIMEOUT", cfg.Breaker.Timeout); err != nil {
		return nil, err
	}
	threshold, err := getUint("BREAKER_FAILURE_THRESHOLD", cfg.Breaker.FailureThreshold)
	if err != nil {
		return nil, err
	}
	cfg.Breaker.FailureThreshold = threshold

	if cfg.LogDevelopment, err = strconv.ParseBool(getEnv("LOG_DEVELOPMENT", "false")); err != nil {
		return nil, fmt.Errorf("invalid LOG_DEVELOPMENT: %w", err)
	}

	cfg.Shipping = cart.DefaultShippingPolicy()
	if cfg.Shipping.FreeShippingThreshold, err = getDecimal("FREE_SHIPPING_THRESHOLD", cfg.Shipping.FreeShippingThreshold); err != nil {
		return nil, err
	}
	if cfg.Shipping.FlatFee, err = getDecimal("FLAT_SHIPPING_FEE", cfg.Shipping.FlatFee); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getUint(key string, defaultValue uint32) (uint32, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return uint32(n), nil
}

func getDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
