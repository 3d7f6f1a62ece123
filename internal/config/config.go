package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/platform/resilience"
)

// Config stores runtime configuration for the API, the scraper job and the migration tool.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	DBURL                      string
	DBDisablePreparedBinary    bool
	DBMaxOpenConns             int
	CORSAllowedOrigins         []string
	SwaggerEnabled             bool
	MetricsEnabled             bool
	APICacheTTL                time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	LogLevel                   logging.Level
	LogFormat                  string
	Scheduler                  SchedulerConfig
	FBref                      FBrefConfig
}

// SchedulerConfig controls the background scrape trigger inside the API process.
type SchedulerConfig struct {
	Enabled    bool
	Cron       string
	Timezone   string
	RunOnEmpty bool
}

// FBrefConfig holds upstream fetch policy and pipeline pacing.
type FBrefConfig struct {
	BaseURL             string
	Timeout             time.Duration
	MaxAttempts         int
	RetryWait           time.Duration
	MinDelay            time.Duration
	MaxDelay            time.Duration
	RateLimitCooldown   time.Duration
	RequestsPerMinute   int
	CircuitBreaker      resilience.CircuitBreakerConfig
	CurrentSeason       string
	HistoricalSeasons   int
	DetailBatchSize     int
	DetailMaxIterations int
	BatchPause          time.Duration
	LeaguePause         time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	apiCacheTTL, err := parseNonNegativeDuration("API_CACHE_TTL", "30s")
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := parsePositiveDuration("HTTP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := parsePositiveDuration("HTTP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbMaxOpenConns, err := parsePositiveInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	scheduler, err := loadSchedulerConfig()
	if err != nil {
		return Config{}, err
	}
	fbref, err := loadFBrefConfig()
	if err != nil {
		return Config{}, err
	}

	serviceName := getEnv("SERVICE_NAME", "football-stats")
	return Config{
		AppEnv:                     appEnv,
		ServiceName:                serviceName,
		ServiceVersion:             getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		DBMaxOpenConns:             dbMaxOpenConns,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:             swaggerEnabled,
		MetricsEnabled:             metricsEnabled,
		APICacheTTL:                apiCacheTTL,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		LogLevel:                   parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFormat:                  strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", logging.FormatJSON))),
		Scheduler:                  scheduler,
		FBref:                      fbref,
	}, nil
}

// RequireDB reports a configuration error when DB_URL is missing.
func (c Config) RequireDB() error {
	if strings.TrimSpace(c.DBURL) == "" {
		return fmt.Errorf("DB_URL is required")
	}
	return nil
}

func loadSchedulerConfig() (SchedulerConfig, error) {
	enabled, err := strconv.ParseBool(getEnv("SCRAPER_ENABLED", "true"))
	if err != nil {
		return SchedulerConfig{}, fmt.Errorf("parse SCRAPER_ENABLED: %w", err)
	}
	runOnEmpty, err := strconv.ParseBool(getEnv("SCRAPER_RUN_ON_EMPTY", "true"))
	if err != nil {
		return SchedulerConfig{}, fmt.Errorf("parse SCRAPER_RUN_ON_EMPTY: %w", err)
	}

	spec := strings.TrimSpace(getEnv("SCRAPER_CRON", "0 3 * * *"))
	if enabled && spec == "" {
		return SchedulerConfig{}, fmt.Errorf("SCRAPER_CRON is required when SCRAPER_ENABLED=true")
	}

	timezone := strings.TrimSpace(getEnv("SCRAPER_TIMEZONE", "UTC"))
	if _, err := time.LoadLocation(timezone); err != nil {
		return SchedulerConfig{}, fmt.Errorf("parse SCRAPER_TIMEZONE: %w", err)
	}

	return SchedulerConfig{
		Enabled:    enabled,
		Cron:       spec,
		Timezone:   timezone,
		RunOnEmpty: runOnEmpty,
	}, nil
}

func loadFBrefConfig() (FBrefConfig, error) {
	cfg := FBrefConfig{
		BaseURL:       strings.TrimRight(strings.TrimSpace(getEnv("FBREF_BASE_URL", "https://fbref.com")), "/"),
		CurrentSeason: strings.TrimSpace(getEnv("FBREF_CURRENT_SEASON", "")),
	}
	if cfg.BaseURL == "" {
		return FBrefConfig{}, fmt.Errorf("FBREF_BASE_URL must not be empty")
	}

	var err error
	if cfg.Timeout, err = parsePositiveDuration("FBREF_TIMEOUT", "30s"); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.MaxAttempts, err = parsePositiveInt("FBREF_MAX_ATTEMPTS", 3); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.RetryWait, err = parseNonNegativeDuration("FBREF_RETRY_WAIT", "5s"); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.MinDelay, err = parseNonNegativeDuration("FBREF_MIN_DELAY", "5s"); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.MaxDelay, err = parseNonNegativeDuration("FBREF_MAX_DELAY", "8s"); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.MaxDelay < cfg.MinDelay {
		return FBrefConfig{}, fmt.Errorf("FBREF_MAX_DELAY must be >= FBREF_MIN_DELAY")
	}
	if cfg.RateLimitCooldown, err = parseNonNegativeDuration("FBREF_RATE_LIMIT_COOLDOWN", "120s"); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.RequestsPerMinute, err = parsePositiveInt("FBREF_REQUESTS_PER_MINUTE", 10); err != nil {
		return FBrefConfig{}, err
	}

	if cfg.CircuitBreaker, err = resilience.LoadCircuitBreakerConfig("FBREF_CIRCUIT", os.LookupEnv); err != nil {
		return FBrefConfig{}, err
	}

	if cfg.HistoricalSeasons, err = parsePositiveInt("FBREF_HISTORICAL_SEASONS", 5); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.DetailBatchSize, err = parsePositiveInt("FBREF_DETAIL_BATCH_SIZE", 5); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.DetailMaxIterations, err = parsePositiveInt("FBREF_DETAIL_MAX_ITERATIONS", 50); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.BatchPause, err = parseNonNegativeDuration("FBREF_BATCH_PAUSE", "2s"); err != nil {
		return FBrefConfig{}, err
	}
	if cfg.LeaguePause, err = parseNonNegativeDuration("FBREF_LEAGUE_PAUSE", "5s"); err != nil {
		return FBrefConfig{}, err
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func parseNonNegativeDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
	}
	return value, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	value, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
