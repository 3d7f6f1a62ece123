package resilience

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func envLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadCircuitBreakerConfig_Defaults(t *testing.T) {
	t.Parallel()

	got, err := LoadCircuitBreakerConfig("FBREF_CIRCUIT", envLookup(map[string]string{"FBREF_CIRCUIT_OPEN_TIMEOUT": "  "}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(DefaultCircuitBreakerConfig(), got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCircuitBreakerConfig_Overrides(t *testing.T) {
	t.Parallel()

	got, err := LoadCircuitBreakerConfig("FBREF_CIRCUIT", envLookup(map[string]string{
		"FBREF_CIRCUIT_ENABLED":                "false",
		"FBREF_CIRCUIT_FAILURE_COUNT":          "3",
		"FBREF_CIRCUIT_OPEN_TIMEOUT":           "2m",
		"FBREF_CIRCUIT_HALF_OPEN_MAX_REQUESTS": "2",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := CircuitBreakerConfig{Enabled: false, FailureThreshold: 3, OpenTimeout: 2 * time.Minute, HalfOpenMaxReq: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCircuitBreakerConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"FBREF_CIRCUIT_ENABLED":                "maybe",
		"FBREF_CIRCUIT_FAILURE_COUNT":          "0",
		"FBREF_CIRCUIT_OPEN_TIMEOUT":           "-1s",
		"FBREF_CIRCUIT_HALF_OPEN_MAX_REQUESTS": "x",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Parallel()
			if _, err := LoadCircuitBreakerConfig("FBREF_CIRCUIT", envLookup(map[string]string{key: value})); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
