package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		href    string
		current string
		want    string
	}{
		{"root relative", "/docs/page", "https://example.com/a/b", "https://example.com/docs/page"},
		{"already absolute", "https://other.com/x", "https://example.com/a", "https://other.com/x"},
		{"path relative resolves against origin", "page", "https://example.com/a/b", "https://example.com/page"},
		{"query only", "?q=1", "https://example.com/a/b", "https://example.com/?q=1"},
		{"protocol relative", "//cdn.example.org/lib", "https://example.com/a", "https://cdn.example.org/lib"},
		{"mailto keeps scheme", "mailto:me@example.com", "https://example.com/a", "mailto:me@example.com"},
		{"malformed href", "http://[::1", "https://example.com/a", "http://[::1"},
		{"malformed current", "/docs", "not a url", "/docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.href, tt.current))
		})
	}
}

func TestIsFragment(t *testing.T) {
	assert.True(t, IsFragment("#section"))
	assert.True(t, IsFragment("  #top"))
	assert.False(t, IsFragment("/page#section"))
}
