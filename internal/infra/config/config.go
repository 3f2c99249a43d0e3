package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "VIBESTAYS"

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config aggregates application configuration loaded from VIBESTAYS_* environment
// variables and an optional config file.
type Config struct {
	Env           string
	HTTPAddr      string
	StorageDriver string
	MongoURI      string
	MongoDB       string
	PostgresDSN   string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	IdempotencyTTL     time.Duration

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool

	SessionTTL    time.Duration
	AdminEmail    string
	AdminName     string
	AdminPassword string

	// RateLimit is the sustained number of public form submissions per minute and client IP.
	RateLimit      float64
	RateLimitBurst int
	CORSOrigins    []string
	FixturesPath   string
}

func defaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("storage_driver", DriverMemory)
	v.SetDefault("mongo_db", "vibestays")
	v.SetDefault("redis_db", 0)
	v.SetDefault("catalog_cache_ttl", "30s")
	v.SetDefault("kafka_topic_prefix", "")
	v.SetDefault("outbox_poll_interval", "500ms")
	v.SetDefault("retry_backoff", "1s,5s,30s")
	v.SetDefault("idempotency_ttl", "24h")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key", "minioadmin")
	v.SetDefault("s3_secret_key", "minioadmin")
	v.SetDefault("s3_bucket", "vibestays-images")
	v.SetDefault("s3_use_ssl", false)
	v.SetDefault("session_ttl", "12h")
	v.SetDefault("admin_name", "Admin")
	v.SetDefault("rate_limit", 10.0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("cors_origins", "*")
}

// Load reads configuration. path points at an optional config file (yaml, json,
// toml or .env); environment variables win over file values.
func Load(path string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := Config{
		Env:              strings.ToLower(v.GetString("env")),
		HTTPAddr:         v.GetString("http_addr"),
		StorageDriver:    strings.ToLower(strings.TrimSpace(v.GetString("storage_driver"))),
		MongoURI:         v.GetString("mongo_uri"),
		MongoDB:          v.GetString("mongo_db"),
		PostgresDSN:      v.GetString("postgres_dsn"),
		RedisAddr:        v.GetString("redis_addr"),
		RedisPassword:    v.GetString("redis_password"),
		RedisDB:          v.GetInt("redis_db"),
		KafkaBrokers:     splitList(v.GetString("kafka_brokers")),
		KafkaTopicPrefix: v.GetString("kafka_topic_prefix"),
		S3Endpoint:       v.GetString("s3_endpoint"),
		S3PublicEndpoint: v.GetString("s3_public_endpoint"),
		S3AccessKey:      v.GetString("s3_access_key"),
		S3SecretKey:      v.GetString("s3_secret_key"),
		S3Bucket:         v.GetString("s3_bucket"),
		S3UseSSL:         v.GetBool("s3_use_ssl"),
		AdminEmail:       v.GetString("admin_email"),
		AdminName:        v.GetString("admin_name"),
		AdminPassword:    v.GetString("admin_password"),
		RateLimit:        v.GetFloat64("rate_limit"),
		RateLimitBurst:   v.GetInt("rate_limit_burst"),
		CORSOrigins:      splitList(v.GetString("cors_origins")),
		FixturesPath:     v.GetString("fixtures_path"),
	}

	var err error
	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"catalog_cache_ttl", &cfg.CatalogCacheTTL},
		{"outbox_poll_interval", &cfg.OutboxPollInterval},
		{"idempotency_ttl", &cfg.IdempotencyTTL},
		{"session_ttl", &cfg.SessionTTL},
	}
	for _, d := range durations {
		if *d.target, err = parseDuration(v, d.key); err != nil {
			return Config{}, err
		}
	}
	if cfg.RetryBackoff, err = parseBackoff(v.GetString("retry_backoff")); err != nil {
		return Config{}, err
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("config: VIBESTAYS_MONGO_URI is required for the mongo driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("config: VIBESTAYS_POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.StorageDriver)
	}
	if c.RateLimit < 0 {
		return errors.New("config: rate limit must not be negative")
	}
	return nil
}

// IsLocal reports whether the service runs on a developer machine.
func (c Config) IsLocal() bool {
	switch c.Env {
	case "dev", "local", "development":
		return true
	default:
		return false
	}
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s_%s duration %q: %w", envPrefix, strings.ToUpper(key), raw, err)
	}
	return d, nil
}

func parseBackoff(raw string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range strings.Split(raw, ",") {
		val := strings.TrimSpace(part)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("config: invalid retry backoff component %q: %w", part, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
