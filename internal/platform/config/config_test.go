package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := loadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, "300-M", cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "1000", cfg.PostingCash)
	assert.Equal(t, "1100", cfg.PostingAccountsReceivable)
	assert.Equal(t, "2100", cfg.PostingAccountsPayable)
	assert.Equal(t, "4100", cfg.PostingServiceRevenue)
	assert.Equal(t, "5000", cfg.PostingCostOfGoodsSold)
	assert.Equal(t, 256, cfg.AuditQueueSize)
	assert.False(t, cfg.IsProduction)
}

func TestLoadFrom_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_CURRENCY", "eur")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("POSTING_CASH", "1010")

	cfg, err := loadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "1010", cfg.PostingCash)
}

func TestLoadFrom_RejectsBadCurrency(t *testing.T) {
	t.Setenv("DEFAULT_CURRENCY", "DOLLARS")
	_, err := loadFrom(viper.New())
	assert.Error(t, err)
}

func TestLoadFrom_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("IS_PRODUCTION", "true")
	_, err := loadFrom(viper.New())
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-production-secret")
	cfg, err := loadFrom(viper.New())
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction)
}
