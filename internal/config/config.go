// Package config содержит логику чтения конфигурации сервиса заказов FastFood.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Config содержит параметры конфигурации сервиса заказов.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURI string `env:"DATABASE_URI"`
	JWTSecret   string `env:"JWT_SECRET"`

	PrepMinutesPerOrder int `env:"PREP_MINUTES_PER_ORDER" envDefault:"10"`

	DeliveryEnabled   bool            `env:"DELIVERY_ENABLED" envDefault:"false"`
	DeliveryBaseFee   decimal.Decimal `env:"DELIVERY_BASE_FEE" envDefault:"0"`
	DeliveryCostPerKm decimal.Decimal `env:"DELIVERY_COST_PER_KM" envDefault:"0"`
	DeliveryMinFee    decimal.Decimal `env:"DELIVERY_MIN_FEE" envDefault:"0"`

	RedisAddress   string        `env:"REDIS_ADDRESS"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"order-events"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// PrepPerOrder возвращает время приготовления одного заказа.
func (c *Config) PrepPerOrder() time.Duration {
	return time.Duration(c.PrepMinutesPerOrder) * time.Minute
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envJWTSecret := cfg.JWTSecret
	envRedisAddress := cfg.RedisAddress
	envKafkaBrokers := cfg.KafkaBrokers

	var kafkaBrokers string

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.JWTSecret, "s", "", "JWT signing secret")
	flag.StringVar(&cfg.RedisAddress, "redis", "", "redis address for idempotency keys")
	flag.StringVar(&kafkaBrokers, "kafka", "", "comma separated kafka brokers for order events")

	flag.Parse()

	cfg.KafkaBrokers = splitList(kafkaBrokers)

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envJWTSecret != "" {
		cfg.JWTSecret = envJWTSecret
	}
	if envRedisAddress != "" {
		cfg.RedisAddress = envRedisAddress
	}
	if len(envKafkaBrokers) > 0 {
		cfg.KafkaBrokers = envKafkaBrokers
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	if cfg.PrepMinutesPerOrder <= 0 {
		return nil, fmt.Errorf("PREP_MINUTES_PER_ORDER must be positive, got %d", cfg.PrepMinutesPerOrder)
	}
	for name, v := range map[string]decimal.Decimal{
		"DELIVERY_BASE_FEE":    cfg.DeliveryBaseFee,
		"DELIVERY_COST_PER_KM": cfg.DeliveryCostPerKm,
		"DELIVERY_MIN_FEE":     cfg.DeliveryMinFee,
	} {
		if v.IsNegative() {
			return nil, fmt.Errorf("%s must not be negative", name)
		}
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
