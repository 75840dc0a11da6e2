// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"coupon-manager/pkg/db"
)

// Supported values for STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort     string
	StoreDriver    string
	LogLevel       string
	DB             db.Config
	RedisAddr      string
	// AllowedOrigins lists the browser origins permitted by CORS.
	AllowedOrigins []string
	Auth           AuthConfig
}

// AuthConfig configures password hashing and token issuance.
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// envConfig mirrors the raw environment keys.
type envConfig struct {
	ServerPort  string        `mapstructure:"SERVER_PORT"`
	StoreDriver string        `mapstructure:"STORE_DRIVER"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
	DBHost      string        `mapstructure:"DB_HOST"`
	DBPort      int           `mapstructure:"DB_PORT"`
	DBUser      string        `mapstructure:"DB_USER"`
	DBPassword  string        `mapstructure:"DB_PASSWORD"`
	DBName      string        `mapstructure:"DB_NAME"`
	DBSSLMode   string        `mapstructure:"DB_SSLMODE"`
	RedisAddr   string        `mapstructure:"REDIS_ADDR"`
	CORSOrigins string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	JWTTTL      time.Duration `mapstructure:"JWT_TTL"`
	BcryptCost  int           `mapstructure:"BCRYPT_COST"`
}

var defaults = map[string]interface{}{
	"SERVER_PORT":          "8080",
	"STORE_DRIVER":         StoreDriverPostgres,
	"LOG_LEVEL":            "info",
	"DB_HOST":              "localhost",
	"DB_PORT":              5432,
	"DB_USER":              "user",
	"DB_PASSWORD":          "password",
	"DB_NAME":              "coupondb",
	"DB_SSLMODE":           "disable",
	"REDIS_ADDR":           "",
	"CORS_ALLOWED_ORIGINS": "http://localhost:3000",
	"JWT_SECRET":           "",
	"JWT_TTL":              "24h",
	"BCRYPT_COST":          bcrypt.DefaultCost,
}

// LoadConfig reads path/app.env when present, then lets environment variables
// override it. A missing file is not an error.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var env envConfig
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &AppConfig{
		ServerPort:  env.ServerPort,
		StoreDriver: strings.ToLower(strings.TrimSpace(env.StoreDriver)),
		LogLevel:    env.LogLevel,
		DB: db.Config{
			Host:     env.DBHost,
			Port:     env.DBPort,
			User:     env.DBUser,
			Password: env.DBPassword,
			DBName:   env.DBName,
			SSLMode:  env.DBSSLMode,
		},
		RedisAddr:      strings.TrimSpace(env.RedisAddr),
		AllowedOrigins: splitList(env.CORSOrigins),
		Auth: AuthConfig{
			JWTSecret:  env.JWTSecret,
			TokenTTL:   env.JWTTTL,
			BcryptCost: env.BcryptCost,
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *AppConfig) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want %q or %q", c.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT must not be empty")
	}
	if c.StoreDriver == StoreDriverPostgres && (c.DB.Port <= 0 || c.DB.Port > 65535) {
		return fmt.Errorf("invalid DB_PORT: %d", c.DB.Port)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid JWT_TTL: %s", c.Auth.TokenTTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("invalid BCRYPT_COST: %d", c.Auth.BcryptCost)
	}
	return nil
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
