package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:            "development",
		Port:           "8080",
		JWTSecret:      "secure-secret-at-least-32-chars-long",
		DBPassword:     "secure-password",
		DBSSLMode:      "require",
		OTPTTLSeconds:  120,
		OTPMaxEntries:  10000,
		TrendingLimit:  10,
		TrendingCacheS: 30,
		SuggestLimit:   10,
		EventBuffer:    256,
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateLimits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero otp ttl", func(c *Config) { c.OTPTTLSeconds = 0 }},
		{"zero otp capacity", func(c *Config) { c.OTPMaxEntries = 0 }},
		{"zero trending limit", func(c *Config) { c.TrendingLimit = 0 }},
		{"negative cache ttl", func(c *Config) { c.TrendingCacheS = -1 }},
		{"zero event buffer", func(c *Config) { c.EventBuffer = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfig_ProductionRejectsDefaultSecret(t *testing.T) {
	c := validConfig()
	c.Env = "production"
	c.JWTSecret = defaultJWTSecret
	assert.Error(t, c.Validate())
}

func TestConfig_Durations(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 2*time.Minute, c.OTPTTL())
	assert.Equal(t, 30*time.Second, c.TrendingCacheTTL())
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer viper.Reset()

	os.Setenv("APP_ENV", "test")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 120, c.OTPTTLSeconds)
	assert.Equal(t, 10000, c.OTPMaxEntries)
	assert.Equal(t, 10, c.TrendingLimit)
	assert.Equal(t, "8375", c.Port)
}
