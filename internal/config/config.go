package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/inventory-tracker/internal/inventory/docstore"
	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/pkg/database"
	"github.com/tair/inventory-tracker/pkg/tracing"
)

// Config holds the tracker configuration, read from the environment
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string

	HTTPPort       string
	GRPCPort       string
	PublicBaseURL  string
	RequestTimeout time.Duration

	Store      docstore.Options
	Collection string

	BlobRoot    string
	ImagePolicy domain.ImagePolicy

	KafkaBrokers []string
	KafkaGroupID string

	HealthInterval time.Duration

	// RateLimitRedisAddr enables the write rate limiter when set
	RateLimitRedisAddr string
	RateLimitMax       int
	RateLimitWindow    time.Duration

	Tracing tracing.Config
}

// IsDevelopment reports whether console logging should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// FilesPrefix is the HTTP path blobs are served under
const FilesPrefix = "/files"

// LoadDotEnv reads a .env file into the environment when one exists.
// Variables already set win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration from environment variables
func Load() (*Config, error) {
	httpPort := getEnv("HTTP_PORT", "8080")

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	requestTimeout, err := getDuration("REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	healthInterval, err := getDuration("HEALTH_INTERVAL", "10s")
	if err != nil {
		return nil, err
	}

	rateLimitMax, err := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX: %w", err)
	}
	if rateLimitMax <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX: must be positive, got %d", rateLimitMax)
	}

	imagePolicy, err := domain.ParseImagePolicy(getEnv("IMAGE_URL_POLICY", string(domain.ImagePolicyOverwrite)))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_URL_POLICY: %w", err)
	}

	rateLimitWindow, err := getDuration("RATE_LIMIT_WINDOW", "1m")
	if err != nil {
		return nil, err
	}

	serviceName := getEnv("OTEL_SERVICE_NAME", "inventory-tracker")

	cfg := &Config{
		ServiceName:    serviceName,
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPPort:       httpPort,
		GRPCPort:       getEnv("GRPC_PORT", "9090"),
		PublicBaseURL:  strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:"+httpPort), "/"),
		RequestTimeout: requestTimeout,
		Store: docstore.Options{
			Driver:     getEnv("STORE_DRIVER", docstore.DriverBadger),
			BadgerPath: getEnv("BADGER_PATH", "./data/inventory"),
			Postgres: database.Config{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     getEnv("DB_USER", "postgres"),
				Password: getEnv("DB_PASSWORD", "postgres"),
				DBName:   getEnv("DB_NAME", "inventorydb"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
			RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			RedisDB:        redisDB,
			RedisPrefix:    getEnv("REDIS_PREFIX", "inventory:"),
			BreakerEnabled: getBool("BREAKER_ENABLED", true),
		},
		Collection:     getEnv("COLLECTION", domain.DefaultCollection),
		BlobRoot:       getEnv("BLOB_ROOT", "./data/blobs"),
		ImagePolicy:    imagePolicy,
		KafkaBrokers:   splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaGroupID:   getEnv("KAFKA_GROUP_ID", serviceName),
		HealthInterval: healthInterval,

		RateLimitRedisAddr: getEnv("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitMax:       rateLimitMax,
		RateLimitWindow:    rateLimitWindow,
		Tracing: tracing.Config{
			Enabled:        getBool("TRACING_ENABLED", false),
			ServiceName:    serviceName,
			ServiceVersion: getEnv("SERVICE_VERSION", "1.0.0"),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	switch cfg.Store.Driver {
	case docstore.DriverBadger, docstore.DriverPostgres, docstore.DriverRedis:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration that must be positive
func getDuration(key, defaultValue string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %s", key, value)
	}
	return value, nil
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

// splitList turns "a, b,,c" into [a b c]
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
