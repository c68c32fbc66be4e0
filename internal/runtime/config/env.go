package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces all environment variables read by FromEnv.
const envPrefix = "TICKETFLOW_"

// listPaths are config paths whose env value is a comma-separated list.
var listPaths = []string{
	"kafka_brokers",
	"http_cors_allowed_origins",
}

// FromEnv builds a Config from defaults overlaid with TICKETFLOW_* environment
// variables. Variable names map to koanf keys by stripping the prefix and
// lowercasing; a double underscore descends into nested structs, so
// TICKETFLOW_TOPICS__RAW_TICKETS sets topics.raw_tickets. List-valued keys
// accept comma-separated values. The result is validated before returning.
func FromEnv() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading config defaults: %w", err)
	}

	provider := env.Provider(envPrefix, ".", func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := splitListValues(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitListValues converts comma-separated string values into string slices
// for the list-valued config paths.
func splitListValues(k *koanf.Koanf) error {
	for _, path := range listPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("setting %s: %w", path, err)
		}
	}
	return nil
}
