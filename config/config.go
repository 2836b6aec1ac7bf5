package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration. DBDriver is "postgres" or "sqlite".
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	JWTSecret     string
	JWTTTL        time.Duration
	WebhookSecret string

	LLM LLMConfig

	// Object storage for uploaded photos. Uploads are skipped when the
	// bucket is empty.
	S3BucketName string
	AWSRegion    string

	LogLevel         string
	RateLimitPerHour int
	CORSOrigins      []string
}

// LLMConfig configures the OpenAI compatible model provider.
type LLMConfig struct {
	APIKey    string
	APIURL    string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance with values from environment
// variables, an optional .env file and, in production, Docker secrets.
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	env := GetEnvironment()
	cfg := &Config{Environment: env}

	switch env {
	case Development, Test, CI:
		loadFromEnv(v, cfg)
	case Production:
		loadFromEnv(v, cfg)
		loadProdSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	apiKey, err := secretOrFile(v, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "foodfriend")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "foodfriend.db")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("OPENAI_API_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_MAX_TOKENS", 1500)
	v.SetDefault("LLM_TIMEOUT", "60s")

	v.SetDefault("JWT_TTL", "24h")

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_PER_HOUR", 30)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
}

func loadFromEnv(v *viper.Viper, cfg *Config) {
	cfg.ServerPort = v.GetString("SERVER_PORT")
	cfg.ServerHost = v.GetString("SERVER_HOST")

	cfg.DBDriver = strings.ToLower(v.GetString("DB_DRIVER"))
	cfg.DBHost = v.GetString("DB_HOST")
	cfg.DBPort = v.GetString("DB_PORT")
	cfg.DBUser = v.GetString("DB_USER")
	cfg.DBPassword = v.GetString("DB_PASSWORD")
	cfg.DBName = v.GetString("DB_NAME")
	cfg.DBSSLMode = v.GetString("DB_SSL_MODE")
	cfg.SQLitePath = v.GetString("SQLITE_PATH")

	cfg.RedisHost = v.GetString("REDIS_HOST")
	cfg.RedisPort = v.GetString("REDIS_PORT")
	cfg.RedisPassword = v.GetString("REDIS_PASSWORD")
	cfg.RedisDB = v.GetInt("REDIS_DB")
	cfg.RedisURL = v.GetString("REDIS_URL")

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	cfg.JWTTTL = v.GetDuration("JWT_TTL")
	cfg.WebhookSecret = v.GetString("WEBHOOK_SECRET")

	cfg.LLM = LLMConfig{
		APIKey:    v.GetString("OPENAI_API_KEY"),
		APIURL:    strings.TrimRight(v.GetString("OPENAI_API_URL"), "/"),
		Model:     v.GetString("OPENAI_MODEL"),
		Timeout:   v.GetDuration("LLM_TIMEOUT"),
		MaxTokens: v.GetInt("OPENAI_MAX_TOKENS"),
	}

	cfg.S3BucketName = v.GetString("S3_BUCKET_NAME")
	cfg.AWSRegion = v.GetString("AWS_REGION")

	cfg.LogLevel = v.GetString("LOG_LEVEL")
	cfg.RateLimitPerHour = v.GetInt("RATE_LIMIT_PER_HOUR")
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
}

// loadProdSecrets overrides sensitive values with Docker secrets when present.
func loadProdSecrets(cfg *Config) {
	overrides := map[string]*string{
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"jwt_secret":     &cfg.JWTSecret,
		"redis_password": &cfg.RedisPassword,
		"redis_url":      &cfg.RedisURL,
		"webhook_secret": &cfg.WebhookSecret,
		"openai_api_key": &cfg.LLM.APIKey,
	}
	for name, dst := range overrides {
		if value := readSecret(name); value != "" {
			*dst = value
		}
	}
}

// secretOrFile reads KEY, falling back to the file named by KEY_FILE.
func secretOrFile(v *viper.Viper, key string) (string, error) {
	if value := v.GetString(key); value != "" {
		return value, nil
	}
	path := v.GetString(key + "_FILE")
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s_FILE: %w", key, err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("%s_FILE %s is empty", key, path)
	}
	return value, nil
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

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
