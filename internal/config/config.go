package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultDatabaseURL      = "file:marketplace.db?_pragma=busy_timeout(5000)"
	defaultAuthProvider     = "jwt"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTTTL           = "24h"
	defaultTxAttempts       = "3"
	defaultRefundTimeout    = "10s"
	defaultAccountCacheTTL  = "10m"
	defaultEventsTopic      = "reservations.events"
	defaultReconcileEvery   = "15m"
	defaultHideForbidden    = "false"
	defaultLogLevel         = "info"
	defaultRefundGateway    = "none"
	defaultEventsBroker     = "none"
	defaultFirebaseCredFile = "admin-sdk-credentials.json"
)

// Config is the process configuration, read once at start and passed down
// explicitly.
type Config struct {
	AppEnv   string
	HTTPAddr string
	LogLevel slog.Level

	DatabaseURL string
	TxAttempts  int

	AuthProvider         string
	JWTSecret            string
	JWTTTL               time.Duration
	FirebaseCredentials  string
	FirebaseProjectID    string
	HideForbiddenAs404   bool
	CORSAllowedOrigins   []string
	RedisURL             string
	AccountCacheTTL      time.Duration
	RefundGateway        string
	StripeSecretKey      string
	RefundTimeout        time.Duration
	EventsBroker         string
	EventsTopic          string
	KafkaBrokers         []string
	RabbitMQURL          string
	ReconcileEvery       time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.AuthProvider = strings.ToLower(strings.TrimSpace(getEnv("AUTH_PROVIDER", defaultAuthProvider)))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.FirebaseProjectID = strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID"))
	cfg.FirebaseCredentials = strings.TrimSpace(getEnv("FIREBASE_CREDENTIALS_FILE", defaultFirebaseCredFile))
	cfg.HideForbiddenAs404 = parseBoolEnv("HIDE_FORBIDDEN_AS_NOT_FOUND", defaultHideForbidden)
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.RefundGateway = strings.ToLower(strings.TrimSpace(getEnv("REFUND_GATEWAY", defaultRefundGateway)))
	cfg.StripeSecretKey = strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	cfg.EventsBroker = strings.ToLower(strings.TrimSpace(getEnv("EVENTS_BROKER", defaultEventsBroker)))
	cfg.EventsTopic = strings.TrimSpace(getEnv("EVENTS_TOPIC", defaultEventsTopic))
	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.RabbitMQURL = strings.TrimSpace(os.Getenv("RABBITMQ_URL"))

	var err error
	if cfg.LogLevel, err = parseLevelEnv("LOG_LEVEL", defaultLogLevel); err != nil {
		return nil, err
	}
	if cfg.TxAttempts, err = parseIntEnv("TX_ATTEMPTS", defaultTxAttempts); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.AccountCacheTTL, err = parseDurationEnv("ACCOUNT_CACHE_TTL", defaultAccountCacheTTL); err != nil {
		return nil, err
	}
	if cfg.RefundTimeout, err = parseDurationEnv("REFUND_TIMEOUT", defaultRefundTimeout); err != nil {
		return nil, err
	}
	if cfg.ReconcileEvery, err = parseDurationEnv("RECONCILE_EVERY", defaultReconcileEvery); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.TxAttempts < 1 || cfg.TxAttempts > 10 {
		return fmt.Errorf("TX_ATTEMPTS must be between 1 and 10")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.RefundTimeout <= 0 {
		return fmt.Errorf("REFUND_TIMEOUT must be > 0")
	}
	if cfg.ReconcileEvery <= 0 {
		return fmt.Errorf("RECONCILE_EVERY must be > 0")
	}

	switch cfg.AuthProvider {
	case "jwt":
		if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	case "firebase":
		if cfg.FirebaseCredentials == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_FILE must be set when AUTH_PROVIDER=firebase")
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be one of: jwt, firebase")
	}

	switch cfg.RefundGateway {
	case "none", "broker":
	case "stripe":
		if cfg.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY must be set when REFUND_GATEWAY=stripe")
		}
	default:
		return fmt.Errorf("REFUND_GATEWAY must be one of: none, stripe, broker")
	}

	switch cfg.EventsBroker {
	case "none":
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS must be set when EVENTS_BROKER=kafka")
		}
	case "rabbitmq":
		if cfg.RabbitMQURL == "" {
			return fmt.Errorf("RABBITMQ_URL must be set when EVENTS_BROKER=rabbitmq")
		}
	default:
		return fmt.Errorf("EVENTS_BROKER must be one of: none, kafka, rabbitmq")
	}
	if cfg.RefundGateway == "broker" && cfg.EventsBroker == "none" {
		return fmt.Errorf("REFUND_GATEWAY=broker requires EVENTS_BROKER")
	}
	if cfg.EventsBroker != "none" && cfg.EventsTopic == "" {
		return fmt.Errorf("EVENTS_TOPIC must not be empty")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseLevelEnv(name, fallback string) (slog.Level, error) {
	var level slog.Level
	value := strings.TrimSpace(getEnv(name, fallback))
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return level, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
