package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBType     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// DBDSN overrides the assembled connection string when set
	DBDSN string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Image storage
	ImageStorage string
	MediaRoot    string
	MediaURL     string
	S3Bucket     string
	S3Region     string

	// Rate limits, zero disables the limiter
	RecipeCreateLimit int
	DownloadLimit     int

	LogLevel  string
	LogFormat string
}

// LoadConfig builds a Config from the optional .env file, the process
// environment and Docker secrets, then validates it.
func LoadConfig() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{Env: GetEnvironment()}

	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000"))

	cfg.DBType = strings.ToLower(getEnv("DB_TYPE", "postgres"))
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", defaultPort(cfg.DBType))
	cfg.DBUser = getEnvOrSecret("DB_USER", "db_user", "foodgram")
	cfg.DBPassword = getEnvOrSecret("DB_PASSWORD", "db_password", "")
	cfg.DBName = getEnv("DB_NAME", "foodgram")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.DBDSN = os.Getenv("DB_DSN")

	cfg.RedisURL = getEnvOrSecret("REDIS_URL", "redis_url", "")
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = getEnvOrSecret("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisDB = getEnvAsInt("REDIS_DB", 0)

	cfg.JWTSecret = getEnvOrSecret("JWT_SECRET", "jwt_secret", "")
	cfg.JWTTTL = getEnvAsDuration("JWT_TTL", 24*time.Hour)

	cfg.ImageStorage = strings.ToLower(getEnv("IMAGE_STORAGE", "local"))
	cfg.MediaRoot = getEnv("MEDIA_ROOT", "media")
	cfg.MediaURL = getEnv("MEDIA_URL", "/media")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.S3Region = os.Getenv("AWS_REGION")

	cfg.RecipeCreateLimit = getEnvAsInt("RATE_LIMIT_RECIPE_CREATE", 50)
	cfg.DownloadLimit = getEnvAsInt("RATE_LIMIT_SHOPPING_DOWNLOAD", 10)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	if cfg.JWTSecret == "" && cfg.Env != Production {
		cfg.JWTSecret = "development-secret"
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether a Redis endpoint has been configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || os.Getenv("REDIS_HOST") != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// getEnvOrSecret prefers the environment variable and falls back to the
// Docker secret of the same purpose.
func getEnvOrSecret(key, secret, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := readSecret(secret); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
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

func defaultPort(dbType string) string {
	switch dbType {
	case "mysql":
		return "3306"
	default:
		return "5432"
	}
}
