package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration

	// PassingThresholdPercent is the minimum quiz score that counts as a pass.
	PassingThresholdPercent int

	// DevBypassEnabled short-circuits the route guard for local development.
	// It must never default to true; startup logs loudly when it is set.
	DevBypassEnabled bool

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// PostgresConfig holds the activation record store connection settings.
type PostgresConfig struct {
	URL string
}

// RedisConfig holds the record cache connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the audit event publisher settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// DefaultPassingThreshold is the quiz pass mark used when unconfigured.
const DefaultPassingThreshold = 80

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := getEnv("TASKGATE_ADDR", ":8080")

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	cfg := Server{
		Addr:                    addr,
		JWTSigningKey:           jwtSigningKey,
		JWTIssuer:               getEnv("JWT_ISSUER", "taskgate"),
		JWTAudience:             getEnv("JWT_AUDIENCE", "taskgate-clients"),
		TokenTTL:                getDuration("TOKEN_TTL", time.Hour),
		PassingThresholdPercent: getInt("QUIZ_PASSING_THRESHOLD", DefaultPassingThreshold),
		DevBypassEnabled:        os.Getenv("DEV_GATE_BYPASS") == "true",
		Postgres: PostgresConfig{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_AUDIT_TOPIC", "taskgate.audit"),
		},
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
