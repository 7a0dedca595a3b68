package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Storage   StorageConfig   `yaml:"storage"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Stripe    StripeConfig    `yaml:"stripe"`
	Rental    RentalConfig    `yaml:"rental"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// GRPCConfig contains the health/reflection gRPC listener
type GRPCConfig struct {
	Port           int           `yaml:"port" env:"GRPC_PORT"`
	HealthInterval time.Duration `yaml:"health_interval" env:"GRPC_HEALTH_INTERVAL"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host" env:"DB_HOST"`
	Port         int    `yaml:"port" env:"DB_PORT"`
	User         string `yaml:"user" env:"DB_USER"`
	Password     string `yaml:"password" env:"DB_PASSWORD"`
	Database     string `yaml:"database" env:"DB_NAME"`
	SSLMode      string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	AutoMigrate  bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

// RedisConfig contains listing cache settings; an empty URL disables the cache
type RedisConfig struct {
	URL string        `yaml:"url" env:"REDIS_URL"`
	TTL time.Duration `yaml:"ttl" env:"REDIS_TTL"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret" env:"JWT_SECRET"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes" env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes" env:"JWT_REFRESH_TOKEN_EXPIRY_MINUTES"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	Type         string        `yaml:"type" env:"STORAGE_TYPE"`         // "mock" or "s3"
	UploadDir    string        `yaml:"upload_dir" env:"UPLOAD_DIR"`     // For mock storage
	BaseURL      string        `yaml:"base_url" env:"STORAGE_BASE_URL"` // Server base URL for mock URLs
	MaxFileSize  int64         `yaml:"max_file_size_mb" env:"STORAGE_MAX_FILE_SIZE_MB"`
	AllowedTypes []string      `yaml:"allowed_types" env:"STORAGE_ALLOWED_TYPES" envSeparator:","`
	URLExpiry    time.Duration `yaml:"url_expiry" env:"STORAGE_URL_EXPIRY"`
	S3           S3Config      `yaml:"s3"`
}

// S3Config contains S3 (or S3-compatible) bucket settings
type S3Config struct {
	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	Region          string `yaml:"region" env:"S3_REGION"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	PublicBaseURL   string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// SendGridConfig contains email delivery settings; an empty key logs emails instead
type SendGridConfig struct {
	APIKey    string `yaml:"api_key" env:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"from_email" env:"SENDGRID_FROM_EMAIL"`
	FromName  string `yaml:"from_name" env:"SENDGRID_FROM_NAME"`
}

// FirebaseConfig contains push notification settings
type FirebaseConfig struct {
	Enabled         bool   `yaml:"enabled" env:"FIREBASE_ENABLED"`
	ProjectID       string `yaml:"project_id" env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `yaml:"credentials_file" env:"FIREBASE_CREDENTIALS_FILE"`
}

// StripeConfig contains payment gateway settings; an empty key selects the dev gateway
type StripeConfig struct {
	SecretKey        string        `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	Currency         string        `yaml:"currency" env:"STRIPE_CURRENCY"`
	FailureThreshold int           `yaml:"failure_threshold" env:"STRIPE_FAILURE_THRESHOLD"`
	OpenTimeout      time.Duration `yaml:"open_timeout" env:"STRIPE_OPEN_TIMEOUT"`
}

// RentalConfig contains booking rules
type RentalConfig struct {
	MinDurationDays int           `yaml:"min_duration_days" env:"RENTAL_MIN_DURATION_DAYS"`
	TxTimeout       time.Duration `yaml:"tx_timeout" env:"RENTAL_TX_TIMEOUT"`
	ReminderDays    int           `yaml:"reminder_days" env:"RENTAL_REMINDER_DAYS"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"LOG_FORMAT"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendReturnReminders string `yaml:"send_return_reminders" env:"SCHEDULER_SEND_RETURN_REMINDERS"`
	WarmListingCache    string `yaml:"warm_listing_cache" env:"SCHEDULER_WARM_LISTING_CACHE"`
	RefreshRatings      string `yaml:"refresh_provider_ratings" env:"SCHEDULER_REFRESH_PROVIDER_RATINGS"`
}

// TelemetryConfig contains tracing settings; an empty endpoint keeps a no-op exporter
type TelemetryConfig struct {
	ServiceName  string  `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SampleRatio  float64 `yaml:"sample_ratio" env:"OTEL_SAMPLE_RATIO"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Unset variables leave the YAML values in place
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.GRPC.Port < 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.GRPC.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	switch c.Storage.Type {
	case "", "mock":
		c.Storage.Type = "mock"
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("upload directory is required")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required")
		}
		if c.Storage.S3.Region == "" {
			return fmt.Errorf("s3 region is required")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	if c.Firebase.Enabled && c.Firebase.ProjectID == "" {
		return fmt.Errorf("firebase project id is required when push is enabled")
	}

	if c.Rental.MinDurationDays < 0 {
		return fmt.Errorf("rental minimum duration cannot be negative")
	}

	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = c.Server.Port + 1
	}
	if c.GRPC.HealthInterval == 0 {
		c.GRPC.HealthInterval = 10 * time.Second
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 5 * time.Minute
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 5
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if c.Storage.URLExpiry == 0 {
		c.Storage.URLExpiry = 15 * time.Minute
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "Appliance Rentals"
	}
	if c.Stripe.Currency == "" {
		c.Stripe.Currency = "inr"
	}
	if c.Stripe.FailureThreshold == 0 {
		c.Stripe.FailureThreshold = 5
	}
	if c.Stripe.OpenTimeout == 0 {
		c.Stripe.OpenTimeout = 30 * time.Second
	}
	if c.Rental.MinDurationDays == 0 {
		c.Rental.MinDurationDays = 30
	}
	if c.Rental.TxTimeout == 0 {
		c.Rental.TxTimeout = 5 * time.Second
	}
	if c.Rental.ReminderDays == 0 {
		c.Rental.ReminderDays = 3
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Scheduler.SendReturnReminders == "" {
		c.Scheduler.SendReturnReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.WarmListingCache == "" {
		c.Scheduler.WarmListingCache = "0 */10 * * * *" // every 10 minutes
	}
	if c.Scheduler.RefreshRatings == "" {
		c.Scheduler.RefreshRatings = "0 30 2 * * *" // 2:30 AM UTC
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "appliance-rental-backend"
	}
	if c.Telemetry.SampleRatio == 0 {
		c.Telemetry.SampleRatio = 1
	}
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the health/reflection gRPC address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.GRPC.Port)
}
