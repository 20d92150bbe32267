package featureflags

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProxyFallback_DisabledByDefault(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	// Should be disabled when env var not set
	assert.False(t, manager.IsEnabled(ctx, ProxyFallback))
}

func TestProxyFallback_EnabledWhenFlagSet(t *testing.T) {
	// Set environment variable
	os.Setenv("TEST_FEATURE_PROXY_FALLBACK", "true")
	defer os.Unsetenv("TEST_FEATURE_PROXY_FALLBACK")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, ProxyFallback))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"ENABLED", "ENABLED", true},
		{"false", "false", false},
		{"0", "0", false},
		{"empty", "", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_FLAG", tt.value)
			defer os.Unsetenv("TEST_FLAG")
			
			manager := NewEnvManager("TEST_")
			ctx := context.Background()
			
			assert.Equal(t, tt.expected, manager.IsEnabled(ctx, "FLAG"))
		})
	}
}

func TestEnvManager_SetEnabled(t *testing.T) {
	manager := NewEnvManager("TEST_")
	ctx := context.Background()

	// Initially disabled
	assert.False(t, manager.IsEnabled(ctx, LocalFallback))

	// Enable via SetEnabled
	manager.SetEnabled(LocalFallback, true)
	assert.True(t, manager.IsEnabled(ctx, LocalFallback))

	// Disable via SetEnabled
	manager.SetEnabled(LocalFallback, false)
	assert.False(t, manager.IsEnabled(ctx, LocalFallback))
}

func TestEnvManager_OverrideTakesPrecedence(t *testing.T) {
	// Set env var to true
	os.Setenv("TEST_FEATURE_LOCAL_FALLBACK", "true")
	defer os.Unsetenv("TEST_FEATURE_LOCAL_FALLBACK")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	// Should be true from env
	assert.True(t, manager.IsEnabled(ctx, LocalFallback))

	// Override to false
	manager.SetEnabled(LocalFallback, false)

	// Override should take precedence
	assert.False(t, manager.IsEnabled(ctx, LocalFallback))
}

func TestStaticManager(t *testing.T) {
	flags := map[FeatureFlag]bool{
		ProxyFallback: true,
		LocalFallback: false,
	}

	manager := NewStaticManager(flags)
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, ProxyFallback))
	assert.False(t, manager.IsEnabled(ctx, LocalFallback))
	assert.False(t, manager.IsEnabled(ctx, RateLimitEnabled)) // Not in initial map
}

func TestStaticManager_SetEnabled(t *testing.T) {
	manager := NewStaticManager(nil)
	ctx := context.Background()

	// All disabled by default
	assert.False(t, manager.IsEnabled(ctx, RateLimitEnabled))

	// Enable flag
	manager.SetEnabled(RateLimitEnabled, true)
	assert.True(t, manager.IsEnabled(ctx, RateLimitEnabled))
}

func TestGetAllFlags(t *testing.T) {
	flags := map[FeatureFlag]bool{
		ProxyFallback:    true,
		LocalFallback:    false,
		RateLimitEnabled: true,
	}

	manager := NewStaticManager(flags)
	allFlags := manager.GetAllFlags()

	assert.Equal(t, flags, allFlags)
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	t.Setenv("TEST_ALL_LOCAL_FALLBACK", "1")

	manager := NewEnvManager("TEST_ALL_")
	allFlags := manager.GetAllFlags()

	assert.Len(t, allFlags, len(All))
	assert.True(t, allFlags[LocalFallback])
	assert.False(t, allFlags[ProxyFallback])
}

func TestContextIntegration(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{
		ProxyFallback: true,
	})

	ctx := context.Background()
	ctx = WithManager(ctx, manager)

	// Using convenience functions
	assert.True(t, IsEnabled(ctx, ProxyFallback))
	assert.False(t, IsEnabled(ctx, LocalFallback))
}

func TestFromContext_DefaultManager(t *testing.T) {
	ctx := context.Background()

	// Without manager in context, should return default (all disabled)
	assert.False(t, IsEnabled(ctx, ProxyFallback))
	assert.False(t, IsEnabled(ctx, LocalFallback))
}

func TestIsEnabledForUser(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{
		RateLimitEnabled: true,
	})

	ctx := context.Background()

	// For both EnvManager and StaticManager, user-specific is same as global
	assert.True(t, manager.IsEnabledForUser(ctx, RateLimitEnabled, "user123"))
	assert.False(t, manager.IsEnabledForUser(ctx, LocalFallback, "user123"))
}

func TestConcurrentAccess(t *testing.T) {
	manager := NewStaticManager(nil)
	ctx := context.Background()

	// Run concurrent reads and writes
	done := make(chan bool)

	// Writers
	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				manager.SetEnabled(ProxyFallback, j%2 == 0)
			}
			done <- true
		}()
	}

	// Readers
	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = manager.IsEnabled(ctx, ProxyFallback)
			}
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestFeatureFlagNames(t *testing.T) {
	// Ensure flag names are what we expect
	assert.Equal(t, FeatureFlag("proxy_fallback"), ProxyFallback)
	assert.Equal(t, FeatureFlag("local_fallback"), LocalFallback)
	assert.Equal(t, FeatureFlag("rate_limit_enabled"), RateLimitEnabled)
}
