package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.Cron != "0 3 * * *" || !cfg.Scheduler.RunOnEmpty {
		t.Fatalf("unexpected scheduler defaults: %+v", cfg.Scheduler)
	}
	if cfg.FBref.BaseURL != "https://fbref.com" {
		t.Fatalf("unexpected FBref.BaseURL: %q", cfg.FBref.BaseURL)
	}
	if cfg.FBref.MaxAttempts != 3 || cfg.FBref.RetryWait != 5*time.Second {
		t.Fatalf("unexpected retry policy: attempts=%d wait=%s", cfg.FBref.MaxAttempts, cfg.FBref.RetryWait)
	}
	if cfg.FBref.MinDelay != 5*time.Second || cfg.FBref.MaxDelay != 8*time.Second {
		t.Fatalf("unexpected jitter: min=%s max=%s", cfg.FBref.MinDelay, cfg.FBref.MaxDelay)
	}
	if cfg.FBref.RateLimitCooldown != 120*time.Second {
		t.Fatalf("unexpected RateLimitCooldown: %s", cfg.FBref.RateLimitCooldown)
	}
	if cfg.FBref.HistoricalSeasons != 5 || cfg.FBref.DetailMaxIterations != 50 || cfg.FBref.DetailBatchSize != 5 {
		t.Fatalf("unexpected pipeline caps: %+v", cfg.FBref)
	}
	if cb := cfg.FBref.CircuitBreaker; !cb.Enabled || cb.FailureThreshold != 5 || cb.OpenTimeout != 10*time.Minute || cb.HalfOpenMaxReq != 1 {
		t.Fatalf("unexpected circuit breaker defaults: %+v", cb)
	}
	if cfg.APICacheTTL != 30*time.Second {
		t.Fatalf("unexpected APICacheTTL: %s", cfg.APICacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_ScraperDisabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SCRAPER_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Scheduler.Enabled {
		t.Fatalf("expected Scheduler.Enabled=false")
	}
}

func TestLoad_FBrefValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "max delay below min delay", key: "FBREF_MAX_DELAY", val: "1s"},
		{name: "zero attempts", key: "FBREF_MAX_ATTEMPTS", val: "0"},
		{name: "negative retry wait", key: "FBREF_RETRY_WAIT", val: "-1s"},
		{name: "invalid detail cap", key: "FBREF_DETAIL_MAX_ITERATIONS", val: "abc"},
		{name: "invalid timezone", key: "SCRAPER_TIMEZONE", val: "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestRequireDB(t *testing.T) {
	if err := (Config{}).RequireDB(); err == nil {
		t.Fatalf("expected error for empty DB_URL")
	}
	if err := (Config{DBURL: "postgres://localhost/db"}).RequireDB(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
