package resilience

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CircuitBreakerConfig controls when the upstream fetcher stops calling a
// failing site. OpenTimeout should outlast the upstream's rate-limit ban.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// DefaultCircuitBreakerConfig suits a scraper doing ~10 requests a minute:
// five consecutive failed pages open the circuit for ten minutes, then a
// single trial request decides whether to close it.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      10 * time.Minute,
		HalfOpenMaxReq:   1,
	}
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// LoadCircuitBreakerConfig reads <prefix>_ENABLED, <prefix>_FAILURE_COUNT,
// <prefix>_OPEN_TIMEOUT and <prefix>_HALF_OPEN_MAX_REQUESTS through lookup.
// Unset or blank keys keep the defaults; malformed or non-positive values are
// errors.
func LoadCircuitBreakerConfig(prefix string, lookup func(key string) (string, bool)) (CircuitBreakerConfig, error) {
	cfg := DefaultCircuitBreakerConfig()
	value := func(suffix string) (string, string, bool) {
		key := prefix + "_" + suffix
		raw, ok := lookup(key)
		raw = strings.TrimSpace(raw)
		return key, raw, ok && raw != ""
	}

	if key, raw, ok := value("ENABLED"); ok {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key, err)
		}
		cfg.Enabled = enabled
	}
	if key, raw, ok := value("FAILURE_COUNT"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key, err)
		}
		if n < 1 {
			return CircuitBreakerConfig{}, fmt.Errorf("parse %s: must be > 0", key)
		}
		cfg.FailureThreshold = n
	}
	if key, raw, ok := value("OPEN_TIMEOUT"); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key, err)
		}
		if d <= 0 {
			return CircuitBreakerConfig{}, fmt.Errorf("parse %s: must be > 0", key)
		}
		cfg.OpenTimeout = d
	}
	if key, raw, ok := value("HALF_OPEN_MAX_REQUESTS"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key, err)
		}
		if n < 1 {
			return CircuitBreakerConfig{}, fmt.Errorf("parse %s: must be > 0", key)
		}
		cfg.HalfOpenMaxReq = n
	}

	return cfg, nil
}
