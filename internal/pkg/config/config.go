package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Webhook WebhookConfig
	Booking BookingConfig
	Notify  NotifyConfig
}

type ServerConfig struct {
	Port           string   `envconfig:"PORT" required:"true"`
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`

	// applies the embedded migrations when the API or worker starts
	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"false"`

	// serialization failures and deadlocks are retried with exponential backoff
	TxMaxRetries int           `envconfig:"DB_TX_MAX_RETRIES" default:"3"`
	TxRetryBase  time.Duration `envconfig:"DB_TX_RETRY_BASE" default:"100ms"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Platform-Client-Id,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type RedisConfig struct {
	Addr          string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password      string `envconfig:"REDIS_PASSWORD"`
	DB            int    `envconfig:"REDIS_DB" default:"0"`
	Concurrency   int    `envconfig:"WORKER_CONCURRENCY" default:"10"`
	ReminderQueue string `envconfig:"REMINDER_QUEUE" default:"reminders"`
	WebhookQueue  string `envconfig:"WEBHOOK_QUEUE" default:"webhooks"`
}

type KafkaConfig struct {
	Brokers           []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	NotificationTopic string   `envconfig:"KAFKA_NOTIFICATION_TOPIC" default:"booking.notifications"`
}

type WebhookConfig struct {
	Timeout         time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
	RatePerSecond   float64       `envconfig:"WEBHOOK_RATE_PER_SECOND" default:"50"`
	Burst           int           `envconfig:"WEBHOOK_BURST" default:"20"`
	SignatureHeader string        `envconfig:"WEBHOOK_SIGNATURE_HEADER" default:"X-Webhook-Signature-256"`
}

type BookingConfig struct {
	// Base URL of the per-app calendar/video adapters; the app type is appended as a path segment.
	IntegrationBaseURL    string        `envconfig:"INTEGRATION_BASE_URL" default:"http://localhost:8090/apps"`
	IntegrationTimeout    time.Duration `envconfig:"INTEGRATION_TIMEOUT" default:"15s"`
	MandatoryReminderLead time.Duration `envconfig:"MANDATORY_REMINDER_LEAD" default:"1h"`
}

const (
	TransportOutbox = "outbox"
	TransportKafka  = "kafka"
)

type NotifyConfig struct {
	// TransportOutbox writes notification jobs to Postgres, TransportKafka publishes them to KafkaConfig.NotificationTopic.
	Transport string `envconfig:"NOTIFY_TRANSPORT" default:"outbox"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations envconfig tags cannot express.
func (c Config) Validate() error {
	var problems []string
	switch c.Notify.Transport {
	case TransportOutbox, TransportKafka:
	default:
		problems = append(problems, fmt.Sprintf("NOTIFY_TRANSPORT must be %q or %q, got %q", TransportOutbox, TransportKafka, c.Notify.Transport))
	}
	if c.Notify.Transport == TransportKafka && len(c.Kafka.Brokers) == 0 {
		problems = append(problems, "KAFKA_BROKERS is required with the kafka transport")
	}
	if _, err := time.ParseDuration(c.JWT.Duration); err != nil {
		problems = append(problems, fmt.Sprintf("JWT_DURATION: %v", err))
	}
	if c.Webhook.RatePerSecond <= 0 || c.Webhook.Burst <= 0 {
		problems = append(problems, "WEBHOOK_RATE_PER_SECOND and WEBHOOK_BURST must be positive")
	}
	if c.Booking.MandatoryReminderLead <= 0 {
		problems = append(problems, "MANDATORY_REMINDER_LEAD must be positive")
	}
	if c.Redis.ReminderQueue == "" || c.Redis.ReminderQueue == c.Redis.WebhookQueue {
		problems = append(problems, "REMINDER_QUEUE and WEBHOOK_QUEUE must be set and distinct")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 5,

			TxMaxRetries: 3,
			TxRetryBase:  10 * time.Millisecond,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Redis: RedisConfig{
			Addr:          "localhost:16379",
			Concurrency:   1,
			ReminderQueue: "reminders",
			WebhookQueue:  "webhooks",
		},
		Kafka: KafkaConfig{
			Brokers:           []string{"localhost:19092"},
			NotificationTopic: "booking.notifications.test",
		},
		Webhook: WebhookConfig{
			Timeout:         2 * time.Second,
			RatePerSecond:   100,
			Burst:           100,
			SignatureHeader: "X-Webhook-Signature-256",
		},
		Booking: BookingConfig{
			IntegrationBaseURL:    "http://localhost:18090/apps",
			IntegrationTimeout:    2 * time.Second,
			MandatoryReminderLead: time.Hour,
		},
		Notify: NotifyConfig{
			Transport: TransportOutbox,
		},
	}
}
