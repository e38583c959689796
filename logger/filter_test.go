package logger

import (
	"net/http"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFilterConfig(t *testing.T) {
	config := DefaultFilterConfig()

	assert.Equal(t, DefaultMaskValue, config.MaskValue)
	for _, expected := range []string{"token", "checksum", "authorization", "password"} {
		assert.True(t, slices.Contains(config.SensitiveFields, expected), "missing %s", expected)
	}
}

func TestNewSensitiveDataFilter(t *testing.T) {
	filter := NewSensitiveDataFilter(nil)
	assert.Equal(t, DefaultMaskValue, filter.config.MaskValue)

	custom := NewSensitiveDataFilter(&FilterConfig{SensitiveFields: []string{"custom_field"}})
	assert.Equal(t, DefaultMaskValue, custom.config.MaskValue, "empty mask falls back to default")

	redacted := NewSensitiveDataFilter(&FilterConfig{
		SensitiveFields: []string{"custom_field"},
		MaskValue:       "[REDACTED]",
	})
	assert.Equal(t, "[REDACTED]", redacted.FilterString("custom_field", "v"))
}

func TestFilterString(t *testing.T) {
	filter := NewSensitiveDataFilter(nil)

	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"token", "abc", DefaultMaskValue},
		{"Badsec-Authentication-Token", "abc", DefaultMaskValue},
		{"X-Request-Checksum", "abc", DefaultMaskValue},
		{"AUTHORIZATION", "Bearer x", DefaultMaskValue},
		{"token", "", ""},
		{"path", "/users", "/users"},
		{"status", "200", "200"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.FilterString(tt.key, tt.value))
		})
	}
}

func TestFilterValue(t *testing.T) {
	filter := NewSensitiveDataFilter(nil)

	t.Run("sensitive key masks whole value", func(t *testing.T) {
		assert.Equal(t, DefaultMaskValue, filter.FilterValue("token", map[string]any{"a": 1}))
	})

	t.Run("nested any map", func(t *testing.T) {
		out := filter.FilterValue("fields", map[string]any{
			"checksum": "abc",
			"nested":   map[string]any{"password": "p", "user": "u"},
		})
		m := out.(map[string]any)
		assert.Equal(t, DefaultMaskValue, m["checksum"])
		assert.Equal(t, map[string]any{"password": DefaultMaskValue, "user": "u"}, m["nested"])
	})

	t.Run("http header", func(t *testing.T) {
		h := http.Header{}
		h.Set("Badsec-Authentication-Token", "secret")
		h.Set("Content-Type", "text/plain")

		out := filter.FilterValue("headers", h).(map[string][]string)
		assert.Equal(t, []string{DefaultMaskValue}, out["Badsec-Authentication-Token"])
		assert.Equal(t, []string{"text/plain"}, out["Content-Type"])
		assert.Equal(t, "secret", h.Get("Badsec-Authentication-Token"), "input must not be mutated")
	})

	t.Run("other values pass through", func(t *testing.T) {
		assert.Equal(t, 42, filter.FilterValue("count", 42))
		assert.Nil(t, filter.FilterValue("missing", nil))
	})
}
