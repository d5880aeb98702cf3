package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akylbek/payment-system/payment-tracker/internal/repository"
)

const (
	DriverMemory = "memory"

	defaultPort           = "8080"
	defaultCacheTTL       = 30 * time.Second
	defaultKafkaTopic     = "payment.events"
	defaultNATSSubject    = "payments.events"
	defaultEvidenceDir    = "evidence_files"
	defaultMaxUploadBytes = 10 << 20
)

type Config struct {
	Port           string
	DatabaseURL    string
	DBDriver       string
	RedisURL       string
	CacheTTL       time.Duration
	KafkaBrokers   []string
	KafkaTopic     string
	NATSURL        string
	NATSSubject    string
	JaegerEndpoint string
	EvidenceDir    string
	MaxUploadBytes int64
	AllowedOrigins []string
	LogLevel       string
}

// Load reads the configuration from the environment. Only malformed numeric
// and duration values are reported here; see Validate for the rest.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", defaultPort),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", repository.Postgres.String())),
		RedisURL:       os.Getenv("REDIS_URL"),
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", defaultKafkaTopic),
		NATSURL:        os.Getenv("NATS_URL"),
		NATSSubject:    getEnv("NATS_SUBJECT", defaultNATSSubject),
		JaegerEndpoint: os.Getenv("JAEGER_ENDPOINT"),
		EvidenceDir:    getEnv("EVIDENCE_DIR", defaultEvidenceDir),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	ttl, err := getDuration("CACHE_TTL", defaultCacheTTL)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = ttl

	maxUpload, err := getInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = maxUpload

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.UsesMemoryStore() {
		return nil
	}
	if _, err := repository.ParseDialect(c.DBDriver); err != nil {
		return fmt.Errorf("DB_DRIVER: %w", err)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", c.DBDriver)
	}
	return nil
}

func (c *Config) UsesMemoryStore() bool {
	return c.DBDriver == DriverMemory
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
