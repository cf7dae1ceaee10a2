package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values loaded from
// environment variables, optionally seeded from a .env file.
type Config struct {
	Env      string
	HTTPAddr string

	MongoURI string
	MongoDB  string

	KafkaBrokers     []string
	KafkaTopicPrefix string

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	SessionJWTSecret string
	WebhookSecret    string

	CheckoutURL    string
	CheckoutAPIKey string
	Currency       string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	// missing .env is fine; the environment may be fully populated already
	_ = godotenv.Load()

	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "hotel-booking"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "quickstay-rooms"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPass:         getEnv("SMTP_PASS", ""),
		SMTPFrom:         getEnv("SMTP_FROM", "no-reply@quickstay.local"),
		SessionJWTSecret: os.Getenv("SESSION_JWT_SECRET"),
		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),
		CheckoutURL:      getEnv("CHECKOUT_URL", ""),
		CheckoutAPIKey:   getEnv("CHECKOUT_API_KEY", ""),
		Currency:         getEnv("CURRENCY", "USD"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, raw := range strings.Split(brokers, ",") {
			if b := strings.TrimSpace(raw); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	smtpPort, err := parseIntEnv("SMTP_PORT", 587)
	if err != nil {
		return Config{}, err
	}
	cfg.SMTPPort = smtpPort

	useSSL, err := parseBoolEnv("S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg.S3UseSSL = useSSL

	if cfg.SessionJWTSecret == "" {
		return Config{}, fmt.Errorf("SESSION_JWT_SECRET is required")
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
