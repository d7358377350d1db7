package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultValues(t *testing.T) {
	for _, key := range []string{"SERVICE_ROLE", "SERVER_PORT", "ENVIRONMENT", "LABEL_DESIGN_SCALE", "SESSION_TTL", "HTTP_TIMEOUT"} {
		if original, ok := os.LookupEnv(key); ok {
			defer os.Setenv(key, original)
		}
		os.Unsetenv(key)
	}

	cfg := New()

	assert.Equal(t, "gateway", cfg.Role)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://handler:8081", cfg.HandlerURL)
	assert.Equal(t, 3.0, cfg.DesignScale)
	assert.Equal(t, 800.0, cfg.MaxViewportWidth)
	assert.Equal(t, 600.0, cfg.MaxViewportHeight)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVICE_ROLE", "handler")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LABEL_DESIGN_SCALE", "2.5")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("EVENT_API_URL", "https://tickets.example.com/api")

	cfg := New()

	assert.Equal(t, "handler", cfg.Role)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 2.5, cfg.DesignScale)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "https://tickets.example.com/api", cfg.EventAPIURL)
}

func TestIsGateway(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{"gateway", true},
		{"handler", false},
		{"other", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			cfg := &Config{Role: tt.role}
			assert.Equal(t, tt.expected, cfg.IsGateway())
		})
	}
}

func TestIsHandler(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{"gateway", false},
		{"handler", true},
		{"other", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			cfg := &Config{Role: tt.role}
			assert.Equal(t, tt.expected, cfg.IsHandler())
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		env      string
		expected bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Environment: tt.env}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INVALID_INT", "not_a_number")

	assert.Equal(t, 42, getEnvInt("TEST_INT", 10))
	assert.Equal(t, 10, getEnvInt("TEST_INVALID_INT", 10))
	assert.Equal(t, 100, getEnvInt("NON_EXISTING_INT", 100))
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "1.25")
	t.Setenv("TEST_INVALID_FLOAT", "wide")

	assert.Equal(t, 1.25, getEnvFloat("TEST_FLOAT", 3))
	assert.Equal(t, 3.0, getEnvFloat("TEST_INVALID_FLOAT", 3))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_INVALID_DURATION", "soon")

	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, getEnvDuration("TEST_INVALID_DURATION", time.Minute))
	assert.Equal(t, time.Minute, getEnvDuration("NON_EXISTING_DURATION", time.Minute))
}
