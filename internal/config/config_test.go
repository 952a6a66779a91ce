package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_ENVIRONMENT", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Service.APIPort)
	assert.Equal(t, []string{"*"}, cfg.Service.CORSAllowedOrigins)
	assert.Empty(t, cfg.Service.TrustedProxies)
	assert.Equal(t, 0.0, cfg.Model.DecisionThreshold)
	assert.Equal(t, 0.30, cfg.Model.RiskMediumCutoff)
	assert.Equal(t, 0.60, cfg.Model.RiskHighCutoff)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr())
	assert.False(t, cfg.APIKey.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "none", cfg.Audit.Transport)
	assert.False(t, cfg.ClickHouse.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVICE_ENVIRONMENT", "production")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_HOST", "valkey")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("API_KEY_ENABLED", "true")
	t.Setenv("API_KEY_VALUE", "secret")
	t.Setenv("RATE_LIMIT_REQUESTS_PER_MINUTE", "30")
	t.Setenv("MODEL_RISK_HIGH_CUTOFF", "0.7")
	t.Setenv("CLICKHOUSE_HOST", "clickhouse")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "valkey:6379", cfg.Cache.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.APIKey.Enabled)
	assert.Equal(t, "secret", cfg.APIKey.Value)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 0.7, cfg.Model.RiskHighCutoff)
	assert.True(t, cfg.ClickHouse.Enabled())
}

func TestLoad_MissingEnvironment(t *testing.T) {
	t.Setenv("SERVICE_ENVIRONMENT", "")
	require.NoError(t, os.Unsetenv("SERVICE_ENVIRONMENT"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidRiskCutoffs(t *testing.T) {
	t.Setenv("SERVICE_ENVIRONMENT", "test")
	t.Setenv("MODEL_RISK_MEDIUM_CUTOFF", "0.8")
	t.Setenv("MODEL_RISK_HIGH_CUTOFF", "0.6")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid risk cutoffs")
}

func TestLoad_SQSTransportRequiresQueue(t *testing.T) {
	t.Setenv("SERVICE_ENVIRONMENT", "test")
	t.Setenv("AUDIT_TRANSPORT", "sqs")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SQS_QUEUE_URL")
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("SERVICE_ENVIRONMENT", "test")
	t.Setenv("SERVICE_TRUSTED_PROXIES", "10.0.0.0/8,192.0.2.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.Service.TrustedProxies)
}

func TestLoad_InvalidTrustedProxy(t *testing.T) {
	t.Setenv("SERVICE_ENVIRONMENT", "test")
	t.Setenv("SERVICE_TRUSTED_PROXIES", "not-an-ip")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trusted proxy")
}
