package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/parse", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		},
	}
}

func TestLimiterAllowsWithinBurst(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	allowed, info := limiter.Allow("1.2.3.4", "/parse", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	allowed, _ = limiter.Allow("1.2.3.4", "/parse", "POST")
	assert.True(t, allowed)
}

func TestLimiterBlocksOverBurst(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	limiter.Allow("1.2.3.4", "/parse", "POST")
	limiter.Allow("1.2.3.4", "/parse", "POST")

	allowed, info := limiter.Allow("1.2.3.4", "/parse", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiterIsolatesClients(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	limiter.Allow("1.2.3.4", "/parse", "POST")
	limiter.Allow("1.2.3.4", "/parse", "POST")

	allowed, _ := limiter.Allow("5.6.7.8", "/parse", "POST")
	assert.True(t, allowed, "a different client has its own bucket")
}

func TestLimiterDisabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/parse", "POST")
		require.True(t, allowed)
	}
}

func TestHealthEndpointUnlimited(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	for i := 0; i < 500; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestMatchFallsBackToDefault(t *testing.T) {
	cfg := testConfig()

	ec := cfg.match("/models", "GET")
	assert.Equal(t, cfg.DefaultLimit, ec.Limit)
	assert.Equal(t, cfg.DefaultWindow, ec.Window)
}

func TestMatchMethodMustAgree(t *testing.T) {
	cfg := testConfig()

	ec := cfg.match("/parse", "GET")
	assert.Equal(t, cfg.DefaultLimit, ec.Limit, "endpoint limits are method specific")
}

func TestLoadConfigDisabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.NotEmpty(t, cfg.EndpointConfigs)
}

func TestBucketRefills(t *testing.T) {
	tb := newTokenBucket(1, 1000) // 1000 tokens/sec, near-instant refill
	allowed, _, _ := tb.take()
	require.True(t, allowed)

	time.Sleep(5 * time.Millisecond)
	allowed, _, _ = tb.take()
	assert.True(t, allowed, "bucket refills over time")
}
