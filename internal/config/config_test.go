package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.GRPCPort)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "hospital.db", cfg.DB.Path)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Policy.UniquePatientCPF)
	assert.Equal(t, DoubleBookingAllow, cfg.Policy.DoubleBooking)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("GRPC_PORT", "50051")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("PATIENT_UNIQUE_CPF", "false")
	t.Setenv("APPOINTMENT_DOUBLE_BOOKING", "reject")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/hospital")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, 30*time.Minute, cfg.Auth.JWTExpiry)
	assert.False(t, cfg.Policy.UniquePatientCPF)
	assert.Equal(t, DoubleBookingReject, cfg.Policy.DoubleBooking)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}},
		{"bad booking policy", map[string]string{"APPOINTMENT_DOUBLE_BOOKING": "maybe"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"bcrypt cost too low", map[string]string{"BCRYPT_COST": "2"}},
		{"non numeric port", map[string]string{"PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testSecret)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestUnparseableValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_EXPIRY", "two hours")
	t.Setenv("AUTH_RATE_BURST", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, 10, cfg.Limits.AuthBurst)
}
