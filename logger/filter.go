package logger

import (
	"net/http"
	"strings"
)

// DefaultMaskValue replaces sensitive values in log output.
const DefaultMaskValue = "***"

// FilterConfig defines the configuration for sensitive data filtering
type FilterConfig struct {
	// SensitiveFields contains field name fragments whose values are masked
	SensitiveFields []string
	// MaskValue is the value used to replace sensitive data (default: "***")
	MaskValue string
}

// DefaultFilterConfig masks BADSEC credentials along with common secret names.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "secret",
			"token", "checksum",
			"authorization", "api_key", "apikey",
			"credential",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values whose key matches a configured fragment.
// Matching is case-insensitive substring matching, so "Badsec-Authentication-Token"
// and "X-Request-Checksum" are both caught by the defaults.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a new filter with the given configuration
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString filters sensitive data from string values
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if value != "" && f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	return value
}

// FilterValue masks the value when key is sensitive and otherwise descends
// into string-keyed maps, including http.Header.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}

	switch v := value.(type) {
	case map[string]any:
		return f.FilterFields(v)
	case map[string]string:
		filtered := make(map[string]string, len(v))
		for k, s := range v {
			filtered[k] = f.FilterString(k, s)
		}
		return filtered
	case http.Header:
		return f.filterMultiValue(v)
	case map[string][]string:
		return f.filterMultiValue(v)
	default:
		return value
	}
}

// FilterFields filters a map of fields for sensitive data
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

func (f *SensitiveDataFilter) filterMultiValue(m map[string][]string) map[string][]string {
	filtered := make(map[string][]string, len(m))
	for k, values := range m {
		if f.isSensitiveField(k) {
			filtered[k] = []string{f.config.MaskValue}
			continue
		}
		filtered[k] = values
	}
	return filtered
}

// isSensitiveField checks if a field name is considered sensitive
func (f *SensitiveDataFilter) isSensitiveField(fieldName string) bool {
	lowerFieldName := strings.ToLower(fieldName)
	for _, sensitiveField := range f.config.SensitiveFields {
		if strings.Contains(lowerFieldName, strings.ToLower(sensitiveField)) {
			return true
		}
	}
	return false
}
