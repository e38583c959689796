package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultFile is read from the working directory when no path is given.
	DefaultFile = "noclist.yaml"
	// EnvPrefix scopes the environment variables that override config keys.
	EnvPrefix = "NOCLIST_"
)

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. The YAML file at path, or DefaultFile when path is empty
// 3. Default values (lowest priority)
//
// An explicit path must exist; DefaultFile is optional.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadFile(k, path); err != nil {
		return nil, err
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return unmarshal(k)
}

// LoadBytes layers a YAML document and the environment over the defaults.
func LoadBytes(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, NewLoadError("yaml", err)
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return unmarshal(k)
}

func loadFile(k *koanf.Koanf, path string) error {
	if path == "" {
		if _, err := os.Stat(DefaultFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		path = DefaultFile
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return NewLoadError(path, err)
	}
	return nil
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// NOCLIST_BADSEC_RETRY_DELAYS -> badsec.retry.delays
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", ".")
			if strings.Contains(value, ",") {
				parts := strings.Split(value, ",")
				for i := range parts {
					parts[i] = strings.TrimSpace(parts[i])
				}
				return key, parts
			}
			return key, value
		},
	}), nil)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "noclist",
		"app.version": "dev",
		"app.env":     EnvDevelopment,

		"badsec.url":               "http://localhost:8888/",
		"badsec.timeout":           "30s",
		"badsec.retry.maxattempts": 3,
		"badsec.retry.delays":      []any{"0s", "3s", "7s"},

		"log.level":  "warn",
		"log.pretty": false,

		"observability.enabled":          false,
		"observability.trace.endpoint":   "stdout",
		"observability.trace.protocol":   "http",
		"observability.trace.insecure":   false,
		"observability.metrics.endpoint": "stdout",
		"observability.metrics.interval": "10s",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
