package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration read from the environment and an optional .env file.
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	Stock StockConfig
	Admin AdminConfig
}

type AppConfig struct {
	Env         string
	Port        string
	LogLevel    string
	CORSOrigins string
}

func (a AppConfig) IsDevelopment() bool { return a.Env == "development" }

type DBConfig struct {
	DatabaseURL      string
	Host             string
	Port             int
	User             string
	Password         string
	Name             string
	SSLMode          string
	TimeZone         string
	StatementTimeout time.Duration
	MaxOpenConns     int
	MaxIdleConns     int
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN. Unknown keys such
// as statement_timeout are sent by pgx as runtime parameters.
func (c DBConfig) DSN() string {
	timeout := c.StatementTimeout.Milliseconds()
	if c.DatabaseURL != "" {
		if timeout <= 0 || strings.Contains(c.DatabaseURL, "statement_timeout") {
			return c.DatabaseURL
		}
		sep := "?"
		if strings.Contains(c.DatabaseURL, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%sstatement_timeout=%d", c.DatabaseURL, sep, timeout)
	}
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
	if timeout > 0 {
		dsn += fmt.Sprintf(" statement_timeout=%d", timeout)
	}
	return dsn
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// StockConfig holds the thresholds used by low stock alerts.
type StockConfig struct {
	LowLimit      int
	CriticalLimit int
}

// AdminConfig is the account seeded on first start.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "lubricentro")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "America/Argentina/Buenos_Aires")
	v.SetDefault("DB_STATEMENT_TIMEOUT_MS", 15000)
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("JWT_ISSUER", "lubricentro-ws")

	v.SetDefault("LOW_STOCK_LIMIT", 5)
	v.SetDefault("CRITICAL_STOCK_LIMIT", 2)

	v.SetDefault("ADMIN_EMAIL", "admin@lubricentro.local")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_NAME", "Administrador")

	cfg := &Config{
		App: AppConfig{
			Env:         v.GetString("APP_ENV"),
			Port:        v.GetString("PORT"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: v.GetString("CORS_ORIGINS"),
		},
		DB: DBConfig{
			DatabaseURL:      v.GetString("DATABASE_URL"),
			Host:             v.GetString("DB_HOST"),
			Port:             v.GetInt("DB_PORT"),
			User:             v.GetString("DB_USER"),
			Password:         v.GetString("DB_PASSWORD"),
			Name:             v.GetString("DB_NAME"),
			SSLMode:          v.GetString("DB_SSLMODE"),
			TimeZone:         v.GetString("DB_TIMEZONE"),
			StatementTimeout: time.Duration(v.GetInt("DB_STATEMENT_TIMEOUT_MS")) * time.Millisecond,
			MaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: time.Duration(v.GetInt("JWT_EXPIRATION_HOURS")) * time.Hour,
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		Stock: StockConfig{
			LowLimit:      v.GetInt("LOW_STOCK_LIMIT"),
			CriticalLimit: v.GetInt("CRITICAL_STOCK_LIMIT"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
			Name:     v.GetString("ADMIN_NAME"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		if !c.App.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", c.App.Env)
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	if c.Stock.CriticalLimit > c.Stock.LowLimit {
		return fmt.Errorf("CRITICAL_STOCK_LIMIT (%d) must not exceed LOW_STOCK_LIMIT (%d)", c.Stock.CriticalLimit, c.Stock.LowLimit)
	}
	return nil
}
