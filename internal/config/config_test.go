package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProdConfig() *Config {
	return &Config{
		Port:       "8390",
		JWTSecret:  strings.Repeat("s", 32),
		DBPassword: "a-strong-database-password",
		DBSSLMode:  "require",
		Env:        "production",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("Valid Development", func(t *testing.T) {
		cfg := &Config{Port: "8390", JWTSecret: "dev-secret", Env: "development"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Missing Port", func(t *testing.T) {
		cfg := &Config{JWTSecret: "dev-secret"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("Missing JWT Secret", func(t *testing.T) {
		cfg := &Config{Port: "8390"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("Valid Production", func(t *testing.T) {
		assert.NoError(t, validProdConfig().Validate())
	})

	t.Run("Production Rejects Default JWT Secret", func(t *testing.T) {
		cfg := validProdConfig()
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Production Rejects Short JWT Secret", func(t *testing.T) {
		cfg := validProdConfig()
		cfg.JWTSecret = "short-secret"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Production Rejects Default DB Password", func(t *testing.T) {
		cfg := validProdConfig()
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})
}
