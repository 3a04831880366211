package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/score", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_BurstThenThrottle(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/score-all", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/score-all", "POST")
		require.True(t, allowed, "request %d within burst should be allowed", i)
		assert.Equal(t, 10, info.Limit)
	}

	allowed, info := limiter.Allow("10.0.0.1", "/score-all", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/score-all", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
		},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/score-all", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/score-all", "POST")
	require.False(t, allowed)

	// A different client has its own bucket.
	allowed, _ = limiter.Allow("10.0.0.2", "/score-all", "POST")
	assert.True(t, allowed)
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/score", Method: "POST", Limit: 300, Window: time.Minute},
		{Path: "/jobs/", Method: "DELETE", Limit: 100, Window: time.Minute},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "exact match", path: "/score", method: "POST", wantLimit: 300},
		{name: "prefix match", path: "/jobs/42", method: "DELETE", wantLimit: 100},
		{name: "method mismatch", path: "/score", method: "GET", wantNil: true},
		{name: "no match", path: "/resumes", method: "POST", wantNil: true},
		{name: "health unlimited", path: "/health", method: "GET", wantLimit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}
