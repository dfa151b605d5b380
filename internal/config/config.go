// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTIssuer   string `mapstructure:"JWT_ISSUER"`
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"APP_ENV"`

	DBDriver                      string `mapstructure:"DB_DRIVER"`
	DBHost                        string `mapstructure:"DB_HOST"`
	DBPort                        string `mapstructure:"DB_PORT"`
	DBUser                        string `mapstructure:"DB_USER"`
	DBPassword                    string `mapstructure:"DB_PASSWORD"`
	DBName                        string `mapstructure:"DB_NAME"`
	DBSSLMode                     string `mapstructure:"DB_SSLMODE"`
	DBSQLitePath                  string `mapstructure:"DB_SQLITE_PATH"`
	DBSchemaMode                  string `mapstructure:"DB_SCHEMA_MODE"`
	DBAutoMigrateAllowDestructive bool   `mapstructure:"DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE"`
	DBMaxOpenConns                int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns                int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes      int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSlowQueryMS                 int    `mapstructure:"DB_SLOW_QUERY_MS"`

	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`

	MediaBackend               string `mapstructure:"MEDIA_BACKEND"`
	MediaLocalDir              string `mapstructure:"MEDIA_LOCAL_DIR"`
	MediaPublicBaseURL         string `mapstructure:"MEDIA_PUBLIC_BASE_URL"`
	MediaMaxUploadMB           int    `mapstructure:"MEDIA_MAX_UPLOAD_MB"`
	MediaProbeEnabled          bool   `mapstructure:"MEDIA_PROBE_ENABLED"`
	MediaBreakerMaxFailures    int    `mapstructure:"MEDIA_BREAKER_MAX_FAILURES"`
	MediaBreakerTimeoutSeconds int    `mapstructure:"MEDIA_BREAKER_TIMEOUT_SECONDS"`
	S3Bucket                   string `mapstructure:"S3_BUCKET"`
	S3Region                   string `mapstructure:"S3_REGION"`
	S3Endpoint                 string `mapstructure:"S3_ENDPOINT"`
	S3ForcePathStyle           bool   `mapstructure:"S3_FORCE_PATH_STYLE"`
	S3AccessKeyID              string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey          string `mapstructure:"S3_SECRET_ACCESS_KEY"`

	StatsCacheTTLSeconds int `mapstructure:"STATS_CACHE_TTL_SECONDS"`

	DevBootstrapUser bool   `mapstructure:"DEV_BOOTSTRAP_USER"`
	DevUsername      string `mapstructure:"DEV_USERNAME"`
	DevEmail         string `mapstructure:"DEV_EMAIL"`
	DevPassword      string `mapstructure:"DEV_PASSWORD"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; environment variables alone are enough.
	_ = viper.ReadInConfig()

	env := strings.ToLower(strings.TrimSpace(viper.GetString("APP_ENV")))
	if env != "" && env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read profile config 'config.%s.yml': %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "vidtube-api")
	viper.SetDefault("JWT_AUDIENCE", "vidtube-client")

	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "vidtube")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_SQLITE_PATH", "vidtube.db")
	viper.SetDefault("DB_SCHEMA_MODE", "hybrid")
	viper.SetDefault("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE", false)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("DB_SLOW_QUERY_MS", 200)

	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("FEATURE_FLAGS", "")

	viper.SetDefault("MEDIA_BACKEND", "local")
	viper.SetDefault("MEDIA_LOCAL_DIR", "./public/media")
	viper.SetDefault("MEDIA_PUBLIC_BASE_URL", "/media")
	viper.SetDefault("MEDIA_MAX_UPLOAD_MB", 200)
	viper.SetDefault("MEDIA_PROBE_ENABLED", true)
	viper.SetDefault("MEDIA_BREAKER_MAX_FAILURES", 5)
	viper.SetDefault("MEDIA_BREAKER_TIMEOUT_SECONDS", 30)
	viper.SetDefault("S3_REGION", "us-east-1")

	viper.SetDefault("STATS_CACHE_TTL_SECONDS", 60)

	viper.SetDefault("DEV_BOOTSTRAP_USER", false)
	viper.SetDefault("DEV_USERNAME", "vidtube_dev")
	viper.SetDefault("DEV_EMAIL", "dev@vidtube.local")
	viper.SetDefault("DEV_PASSWORD", "")

	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.DBSchemaMode = strings.ToLower(strings.TrimSpace(c.DBSchemaMode))
	c.MediaBackend = strings.ToLower(strings.TrimSpace(c.MediaBackend))
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// StatsCacheTTL is how long channel stats stay cached.
func (c *Config) StatsCacheTTL() time.Duration {
	if c.StatsCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.StatsCacheTTLSeconds) * time.Second
}

// MaxUploadBytes is the request body limit for media uploads.
func (c *Config) MaxUploadBytes() int {
	if c.MediaMaxUploadMB <= 0 {
		return 200 * 1024 * 1024
	}
	return c.MediaMaxUploadMB * 1024 * 1024
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.DBDriver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.MediaBackend {
	case "", "local", "s3":
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND %q", c.MediaBackend)
	}
	if c.DBConnMaxLifetimeMinutes < 0 {
		return errors.New("DB_CONN_MAX_LIFETIME_MINUTES must not be negative")
	}

	// Strict checks for production
	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver != "sqlite" {
			if c.DBPassword == "password" || c.DBPassword == "" {
				return errors.New("a strong DB_PASSWORD is required in production")
			}
			if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
				return errors.New("DB_SSLMODE must not be 'disable' in production")
			}
		}
		if c.MediaBackend == "s3" && c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when MEDIA_BACKEND=s3")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
