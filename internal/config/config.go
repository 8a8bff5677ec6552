// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// maskedSecret is what secret values look like in logs. Fixed length so the
// log line reveals nothing about the real value.
const maskedSecret = "********"

// Config holds all runtime configuration for the service.
// It is populated once at startup and never mutated afterwards.
type Config struct {
	Port   string
	AppEnv string

	// Target S3 bucket and region.
	Region string
	Bucket string

	// Static credentials. Both empty means the AWS default credential chain
	// (instance role, web identity token, shared config) is used instead.
	AccessKeyID     string
	SecretAccessKey string
}

// Load reads configuration from a .env file (if present) and environment
// variables. It returns an error when a required value is missing so that
// main can exit non-zero before binding the HTTP port.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, reading from environment")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),

		Region:          os.Getenv("AWS_REGION"),
		Bucket:          os.Getenv("S3_BUCKET_NAME"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}

	if cfg.Region == "" {
		return nil, fmt.Errorf("AWS_REGION is not set")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME is not set")
	}

	return cfg, nil
}

// HasStaticCredentials reports whether both static AWS credentials were
// provided. When false the SDK falls back to its ambient credential chain.
func (c *Config) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// AuthMethod names the credential source, for display on the form page.
func (c *Config) AuthMethod() string {
	if c.HasStaticCredentials() {
		return "static access key"
	}
	return "ambient credential chain"
}

// LogFields emits one log line per configuration field. Secret values are
// replaced by a fixed-length mask; neither the value nor its length ever
// reaches a log.
func (c *Config) LogFields() {
	slog.Info("config", "field", "AWS_REGION", "value", c.Region)
	slog.Info("config", "field", "S3_BUCKET_NAME", "value", c.Bucket)
	slog.Info("config", "field", "AWS_ACCESS_KEY_ID", "value", maskOrUnset(c.AccessKeyID))
	slog.Info("config", "field", "AWS_SECRET_ACCESS_KEY", "value", maskOrUnset(c.SecretAccessKey))
	slog.Info("config", "field", "PORT", "value", c.Port)
	slog.Info("config", "field", "APP_ENV", "value", c.AppEnv)
}

func maskOrUnset(v string) string {
	if v == "" {
		return "not set (ambient credential chain)"
	}
	return maskedSecret
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
