package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `validate:"required"`
	DB        DBConfig        `validate:"required"`
	S3        S3Config        `validate:"required"`
	Log       LogConfig       `validate:"required"`
	Extractor ExtractorConfig `validate:"required"`
	Upload    UploadConfig    `validate:"required"`
	CORS      CORSConfig
	Client    ClientConfig `validate:"required"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port" validate:"required"`
	BasePath     string        `mapstructure:"base_path" validate:"required,startswith=/"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	Environment  string        `mapstructure:"environment" validate:"oneof=development staging production test"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open" validate:"gte=0"`
	MaxIdle  int    `mapstructure:"max_idle" validate:"gte=0"`

	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object storage settings. An empty Bucket keeps source
// files inline in the database instead.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Enabled reports whether source files go to object storage.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// ExtractorConfig holds the vision model settings.
type ExtractorConfig struct {
	Provider    string  `mapstructure:"provider" validate:"required"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url" validate:"required,url"`
	Model       string  `mapstructure:"model" validate:"required"`
	TimeoutSecs int     `mapstructure:"timeout_secs" validate:"gt=0"`
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gt=0"`
	RatePerMin  int     `mapstructure:"rate_per_min" validate:"gte=0"`
}

// UploadConfig holds limits applied to extraction uploads.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb" validate:"gt=0"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ClientConfig holds settings for the operator client.
type ClientConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	ListLimit int           `mapstructure:"list_limit" validate:"gte=0"`
}

// Load reads configuration from environment variables with the DOCVERIFY_
// prefix, optionally overlaid on a YAML file when path is non-empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCVERIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.base_path", "/api")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docverify")
	v.SetDefault("db.password", "docverify_secret")
	v.SetDefault("db.name", "docverify_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Extractor defaults
	v.SetDefault("extractor.provider", "openai")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.base_url", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("extractor.model", "gpt-4o")
	v.SetDefault("extractor.timeout_secs", 30)
	v.SetDefault("extractor.temperature", 0.1)
	v.SetDefault("extractor.max_tokens", 500)
	v.SetDefault("extractor.rate_per_min", 60)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 10)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Client defaults
	v.SetDefault("client.base_url", "http://localhost:8000/api")
	v.SetDefault("client.timeout", "60s")
	v.SetDefault("client.list_limit", 0)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "DOCVERIFY_SERVER_PORT",
		"server.base_path":        "DOCVERIFY_SERVER_BASE_PATH",
		"server.read_timeout":     "DOCVERIFY_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "DOCVERIFY_SERVER_WRITE_TIMEOUT",
		"server.environment":      "DOCVERIFY_SERVER_ENVIRONMENT",
		"db.host":                 "DOCVERIFY_DB_HOST",
		"db.port":                 "DOCVERIFY_DB_PORT",
		"db.user":                 "DOCVERIFY_DB_USER",
		"db.password":             "DOCVERIFY_DB_PASSWORD",
		"db.name":                 "DOCVERIFY_DB_NAME",
		"db.sslmode":              "DOCVERIFY_DB_SSLMODE",
		"db.max_open":             "DOCVERIFY_DB_MAX_OPEN",
		"db.max_idle":             "DOCVERIFY_DB_MAX_IDLE",
		"db.conn_max_lifetime":    "DOCVERIFY_DB_CONN_MAX_LIFETIME",
		"s3.region":               "DOCVERIFY_S3_REGION",
		"s3.bucket":               "DOCVERIFY_S3_BUCKET",
		"s3.endpoint":             "DOCVERIFY_S3_ENDPOINT",
		"s3.access_key":           "DOCVERIFY_S3_ACCESS_KEY",
		"s3.secret_key":           "DOCVERIFY_S3_SECRET_KEY",
		"log.level":               "DOCVERIFY_LOG_LEVEL",
		"log.format":              "DOCVERIFY_LOG_FORMAT",
		"extractor.provider":      "DOCVERIFY_EXTRACTOR_PROVIDER",
		"extractor.api_key":       "DOCVERIFY_EXTRACTOR_API_KEY",
		"extractor.base_url":      "DOCVERIFY_EXTRACTOR_BASE_URL",
		"extractor.model":         "DOCVERIFY_EXTRACTOR_MODEL",
		"extractor.timeout_secs":  "DOCVERIFY_EXTRACTOR_TIMEOUT_SECS",
		"extractor.temperature":   "DOCVERIFY_EXTRACTOR_TEMPERATURE",
		"extractor.max_tokens":    "DOCVERIFY_EXTRACTOR_MAX_TOKENS",
		"extractor.rate_per_min":  "DOCVERIFY_EXTRACTOR_RATE_PER_MIN",
		"upload.max_file_size_mb": "DOCVERIFY_UPLOAD_MAX_FILE_SIZE_MB",
		"cors.allowed_origins":    "DOCVERIFY_CORS_ALLOWED_ORIGINS",
		"client.base_url":         "DOCVERIFY_CLIENT_BASE_URL",
		"client.timeout":          "DOCVERIFY_CLIENT_TIMEOUT",
		"client.list_limit":       "DOCVERIFY_CLIENT_LIST_LIMIT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// PaaS platforms set PORT. Use it if DOCVERIFY_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCVERIFY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		BasePath:     v.GetString("server.base_path"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  strings.ToLower(v.GetString("log.level")),
		Format: strings.ToLower(v.GetString("log.format")),
	}
	cfg.Extractor = ExtractorConfig{
		Provider:    v.GetString("extractor.provider"),
		APIKey:      v.GetString("extractor.api_key"),
		BaseURL:     v.GetString("extractor.base_url"),
		Model:       v.GetString("extractor.model"),
		TimeoutSecs: v.GetInt("extractor.timeout_secs"),
		Temperature: v.GetFloat64("extractor.temperature"),
		MaxTokens:   v.GetInt("extractor.max_tokens"),
		RatePerMin:  v.GetInt("extractor.rate_per_min"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Client = ClientConfig{
		BaseURL:   strings.TrimRight(v.GetString("client.base_url"), "/"),
		Timeout:   v.GetDuration("client.timeout"),
		ListLimit: v.GetInt("client.list_limit"),
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the loaded configuration for values the server and
// client cannot start with.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateServer additionally requires the settings only the reference
// service needs.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Extractor.APIKey == "" {
		return fmt.Errorf("invalid configuration: extractor.api_key is required")
	}
	return nil
}
