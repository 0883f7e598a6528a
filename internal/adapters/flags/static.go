// Package flags provides ports.FeatureFlags implementations.
package flags

import (
	"context"
	"maps"
	"strconv"
	"strings"
)

// Static serves feature flags from a fixed map, normally the `flags`
// section of the loaded configuration. Values are strings; boolean flags
// accept anything strconv.ParseBool does.
type Static struct {
	values map[string]string
}

// NewStatic creates a flag source from a copy of values.
func NewStatic(values map[string]string) *Static {
	s := &Static{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[normalize(k)] = strings.TrimSpace(v)
	}

	return s
}

// With returns a copy of s with flag set to value.
func (s *Static) With(flag, value string) *Static {
	out := &Static{values: maps.Clone(s.values)}
	out.values[normalize(flag)] = strings.TrimSpace(value)

	return out
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	raw, ok := s.values[normalize(flag)]
	if !ok {
		return defaultValue
	}

	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}

	return enabled
}

// GetString implements ports.FeatureFlags.
func (s *Static) GetString(_ context.Context, flag string, defaultValue string) string {
	if raw, ok := s.values[normalize(flag)]; ok {
		return raw
	}

	return defaultValue
}

// Values returns a copy of the configured flags.
func (s *Static) Values() map[string]string {
	return maps.Clone(s.values)
}

func normalize(flag string) string {
	return strings.ToLower(strings.TrimSpace(flag))
}
