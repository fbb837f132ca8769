// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DoubleBookingAllow  = "allow"
	DoubleBookingReject = "reject"
)

type Config struct {
	Env             string        `validate:"required"`
	Port            string        `validate:"required,numeric"`
	GRPCPort        string        `validate:"omitempty,numeric"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	DB     Database
	Auth   Auth
	Policy Policy
	Limits Limits
	Log    Log

	CORSAllowedOrigins []string `validate:"min=1"`
}

type Database struct {
	Driver string `validate:"oneof=sqlite postgres"`
	Path   string `validate:"required_if=Driver sqlite"`
	URL    string `validate:"required_if=Driver postgres"`
}

type Auth struct {
	// HS256 needs at least 256 bits of key material.
	JWTSecret  string        `validate:"required,min=32"`
	JWTExpiry  time.Duration `validate:"gt=0"`
	BcryptCost int           `validate:"min=4,max=31"`
}

// Policy holds behaviour the clinic leaves to the operator.
type Policy struct {
	UniquePatientCPF bool
	DoubleBooking    string `validate:"oneof=allow reject"`
}

type Limits struct {
	GlobalRPS int     `validate:"gt=0"`
	AuthRPS   float64 `validate:"gt=0"`
	AuthBurst int     `validate:"gt=0"`
}

type Log struct {
	Level      string `validate:"oneof=debug info warn error"`
	File       string
	MaxSizeMB  int `validate:"min=1,max=1024"`
	MaxBackups int `validate:"min=0,max=100"`
	MaxAgeDays int `validate:"min=0,max=365"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:             env("APP_ENV", "development"),
		Port:            env("PORT", "8080"),
		GRPCPort:        env("GRPC_PORT", ""),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DB: Database{
			Driver: env("DB_DRIVER", DriverSQLite),
			Path:   env("DB_PATH", "hospital.db"),
			URL:    env("DATABASE_URL", ""),
		},
		Auth: Auth{
			JWTSecret:  os.Getenv("JWT_SECRET"),
			JWTExpiry:  envDuration("JWT_EXPIRY", 2*time.Hour),
			BcryptCost: envInt("BCRYPT_COST", 10),
		},
		Policy: Policy{
			UniquePatientCPF: envBool("PATIENT_UNIQUE_CPF", true),
			DoubleBooking:    env("APPOINTMENT_DOUBLE_BOOKING", DoubleBookingAllow),
		},
		Limits: Limits{
			GlobalRPS: envInt("RATE_LIMIT_RPS", 20),
			AuthRPS:   envFloat("AUTH_RATE_RPS", 5),
			AuthBurst: envInt("AUTH_RATE_BURST", 10),
		},
		Log: Log{
			Level:      env("LOG_LEVEL", "info"),
			File:       env("LOG_FILE", ""),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 28),
		},
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// unparseable values fall back to the default
func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
