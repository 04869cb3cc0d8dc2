package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string
	PostgresDSN   string
	RedisAddr     string
	KafkaBrokers  []string
	JWTSecret     string
	JWTTTL        time.Duration
	LogLevel      string
	OTLPEndpoint  string
	RunMigrations bool

	NotificationsTopic   string
	DepositEventsTopic   string
	KafkaGroupID         string
	ConsumeNotifications bool

	Sepay SepayConfig

	PendingReportSchedule string
}

// SepayConfig holds the payment gateway webhook settings.
type SepayConfig struct {
	WebhookSecret         string
	AccessToken           string
	TransferContentPrefix string
	DuplicateWindow       time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, using environment", "error", err)
	}

	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		PostgresDSN:   getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=banking sslmode=disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKER", "localhost:9092")),
		JWTSecret:     getEnv("JWT_SECRET", "supersecret"),
		JWTTTL:        getDuration("JWT_TTL", time.Hour),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		RunMigrations: getBool("RUN_MIGRATIONS", true),

		NotificationsTopic:   getEnv("KAFKA_NOTIFICATIONS_TOPIC", "payment-notifications"),
		DepositEventsTopic:   getEnv("KAFKA_DEPOSIT_EVENTS_TOPIC", "deposit-events"),
		KafkaGroupID:         getEnv("KAFKA_GROUP_ID", "deposit-reconciler"),
		ConsumeNotifications: getBool("KAFKA_CONSUME_NOTIFICATIONS", true),

		Sepay: SepayConfig{
			WebhookSecret:         os.Getenv("SEPAY_WEBHOOK_SECRET"),
			AccessToken:           os.Getenv("SEPAY_ACCESS_TOKEN"),
			TransferContentPrefix: getEnv("SEPAY_TRANSFER_CONTENT_PREFIX", "NAPTIEN"),
			DuplicateWindow:       getDuration("DUPLICATE_WINDOW", 24*time.Hour),
		},

		PendingReportSchedule: getEnv("PENDING_REPORT_SCHEDULE", "@every 1m"),
	}

	slog.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.KafkaBrokers,
		"notifications_topic", cfg.NotificationsTopic,
		"transfer_content_prefix", cfg.Sepay.TransferContentPrefix,
		"duplicate_window", cfg.Sepay.DuplicateWindow.String(),
		"webhook_secret_set", cfg.Sepay.WebhookSecret != "",
		"access_token_set", cfg.Sepay.AccessToken != "")
	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback.String())
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean, using default", "key", key, "value", v)
		return fallback
	}
	return b
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
