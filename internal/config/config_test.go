package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("BASE_URL", "https://feedback.example.com/")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "qr_feedback", cfg.DBName)
		assert.Equal(t, "5000", cfg.Port)
		assert.Equal(t, time.Hour, cfg.TokenTTL)
		assert.Equal(t, 30*time.Second, cfg.PerformanceCacheTTL)
		assert.Equal(t, "https://feedback.example.com", cfg.BaseURL)
		assert.Equal(t, "public/qrcodes", cfg.QRCodeDir)
	})

	t.Run("MissingSecret", func(t *testing.T) {
		t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("NonPositiveTTL", func(t *testing.T) {
		t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("TOKEN_TTL", "0s")

		_, err := Load()
		assert.Error(t, err)
	})
}
