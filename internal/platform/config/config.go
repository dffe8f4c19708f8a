package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean and deployments stay twelve-factor.
type Server struct {
	Addr        string
	DatabaseURL string

	Redis RedisConfig
	Kafka KafkaConfig
	SMTP  SMTPConfig

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	AccessTokenTTL time.Duration

	// VerifiedCountTTL bounds staleness of the cached verified-user count
	// used as the spam-likelihood denominator.
	VerifiedCountTTL time.Duration

	OTPTTL time.Duration
}

// RedisConfig configures the optional cache. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional event publisher. No brokers, no events.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SMTPConfig configures outbound OTP mail. An empty host routes mail to the
// log-only mailer.
type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:             envOr("CALLDEX_ADDR", ":8080"),
		DatabaseURL:      os.Getenv("CALLDEX_DATABASE_URL"),
		JWTSigningKey:    envOr("CALLDEX_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:        envOr("CALLDEX_JWT_ISSUER", "calldex"),
		JWTAudience:      envOr("CALLDEX_JWT_AUDIENCE", "calldex-api"),
		AccessTokenTTL:   durationOr("CALLDEX_ACCESS_TOKEN_TTL", time.Hour),
		VerifiedCountTTL: durationOr("CALLDEX_VERIFIED_COUNT_TTL", 30*time.Second),
		OTPTTL:           durationOr("CALLDEX_OTP_TTL", 5*time.Minute),
	}

	cfg.Redis = RedisConfig{
		URL:          os.Getenv("CALLDEX_REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	if brokers := os.Getenv("CALLDEX_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Kafka.Topic = envOr("CALLDEX_KAFKA_TOPIC", "calldex.events")

	cfg.SMTP = SMTPConfig{
		Host:     os.Getenv("CALLDEX_SMTP_HOST"),
		Port:     envOr("CALLDEX_SMTP_PORT", "587"),
		From:     envOr("CALLDEX_SMTP_FROM", "no-reply@calldex.local"),
		Username: os.Getenv("CALLDEX_SMTP_USERNAME"),
		Password: os.Getenv("CALLDEX_SMTP_PASSWORD"),
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
