package fbref

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/platform/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const chromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Fetch outcomes reported through FetcherConfig.OnFetch.
const (
	OutcomeSuccess      = "success"
	OutcomeRateLimited  = "rate_limited"
	OutcomeAccessDenied = "access_denied"
	OutcomeUpstream     = "upstream_error"
	OutcomeTransport    = "transport_error"
	OutcomeCircuitOpen  = "circuit_open"
)

type FetcherConfig struct {
	Timeout           time.Duration
	MaxAttempts       int
	RetryWait         time.Duration
	MinDelay          time.Duration
	MaxDelay          time.Duration
	RateLimitCooldown time.Duration
	RequestsPerMinute int
	UserAgent         string
	CircuitBreaker    resilience.CircuitBreakerConfig
	Logger            *logging.Logger
	// OnFetch observes every HTTP attempt, e.g. for metrics.
	OnFetch func(outcome string, elapsed time.Duration)
}

// Fetcher downloads upstream pages one at a time. Every attempt waits on the
// request limiter and then sleeps a random jitter, so callers must not share a
// Fetcher across concurrent runs.
type Fetcher struct {
	client            *resty.Client
	transport         *http.Transport
	limiter           *rate.Limiter
	breaker           *resilience.CircuitBreaker
	circuitEnabled    bool
	maxAttempts       int
	retryWait         time.Duration
	minDelay          time.Duration
	maxDelay          time.Duration
	rateLimitCooldown time.Duration
	logger            *logging.Logger
	onFetch           func(outcome string, elapsed time.Duration)
	sleep             func(ctx context.Context, d time.Duration) error
	closed            atomic.Bool
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.RequestsPerMinute < 1 {
		cfg.RequestsPerMinute = 10
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = chromeUserAgent
	}

	client := resty.New()
	transport, _ := client.GetClient().Transport.(*http.Transport)
	client.GetClient().Transport = otelhttp.NewTransport(cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport))
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "en-US,en;q=0.9")
	client.SetTimeout(cfg.Timeout)

	logger = logger.Named("fbref")
	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("fbref circuit breaker state changed", "from", string(from), "to", string(to))
	})

	return &Fetcher{
		client:            client,
		transport:         transport,
		limiter:           rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		breaker:           breaker,
		circuitEnabled:    cfg.CircuitBreaker.Enabled,
		maxAttempts:       cfg.MaxAttempts,
		retryWait:         cfg.RetryWait,
		minDelay:          cfg.MinDelay,
		maxDelay:          cfg.MaxDelay,
		rateLimitCooldown: cfg.RateLimitCooldown,
		logger:            logger,
		onFetch:           cfg.OnFetch,
		sleep:             sleepContext,
	}
}

// Fetch returns the page body. Failures are *FetchError values that wrap
// ErrRateLimited, ErrAccessDenied, ErrUpstream, ErrTransport or ErrCircuitOpen.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", &FetchError{URL: url, Err: ErrFetcherClosed}
	}
	if f.circuitEnabled {
		if err := f.breaker.Allow(); err != nil {
			f.observe(OutcomeCircuitOpen, 0)
			f.logger.WarnContext(ctx, "fbref circuit breaker rejected request", "url", url, "state", f.breaker.State())
			return "", &FetchError{URL: url, Err: crerr.Wrapf(ErrCircuitOpen, "request rejected: %v", err)}
		}
	}

	var (
		lastErr    error
		lastStatus int
		attempts   int
	)
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		attempts = attempt
		if err := f.pace(ctx); err != nil {
			f.recordBreaker(0, nil)
			return "", &FetchError{URL: url, Attempts: attempt, Err: err}
		}

		body, status, err := f.do(ctx, url)
		if err == nil {
			f.recordBreaker(status, nil)
			return body, nil
		}
		lastErr, lastStatus = err, status

		retry := isRetryable(ctx, status, err) && attempt < f.maxAttempts
		f.logger.WarnContext(ctx, "fbref request failed",
			"url", url,
			"status", status,
			"attempt", attempt,
			"max_attempts", f.maxAttempts,
			"will_retry", retry,
			"error", err,
		)
		if !retry {
			break
		}
		if err := f.sleep(ctx, f.retryWait); err != nil {
			lastErr = err
			break
		}
	}

	f.recordBreaker(lastStatus, lastErr)
	return "", &FetchError{URL: url, StatusCode: lastStatus, Attempts: attempts, Err: lastErr}
}

// Close releases pooled connections. It is safe to call more than once.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	if f.transport != nil {
		f.transport.CloseIdleConnections()
	}
	f.client.GetClient().CloseIdleConnections()
	return nil
}

func (f *Fetcher) do(ctx context.Context, url string) (string, int, error) {
	startedAt := time.Now()
	resp, err := f.client.R().SetContext(ctx).Get(url)
	elapsed := time.Since(startedAt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", 0, ctxErr
		}
		f.observe(OutcomeTransport, elapsed)
		return "", 0, crerr.Wrapf(ErrTransport, "send request: %v", err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		f.observe(OutcomeSuccess, elapsed)
		return resp.String(), status, nil
	case status == http.StatusTooManyRequests:
		f.observe(OutcomeRateLimited, elapsed)
		f.logger.WarnContext(ctx, "fbref rate limited, cooling down", "url", url, "cooldown", f.rateLimitCooldown.String())
		if err := f.sleep(ctx, f.rateLimitCooldown); err != nil {
			return "", status, err
		}
		return "", status, ErrRateLimited
	case status == http.StatusForbidden:
		f.observe(OutcomeAccessDenied, elapsed)
		return "", status, ErrAccessDenied
	default:
		f.observe(OutcomeUpstream, elapsed)
		return "", status, crerr.Wrapf(ErrUpstream, "unexpected status %d", status)
	}
}

// pace waits for a limiter token, then sleeps a random delay in [minDelay, maxDelay].
func (f *Fetcher) pace(ctx context.Context) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}
	return f.sleep(ctx, jitter(f.minDelay, f.maxDelay))
}

func (f *Fetcher) recordBreaker(status int, err error) {
	if !f.circuitEnabled {
		return
	}
	if err != nil && countsAsCircuitFailure(status, err) {
		f.breaker.RecordFailure()
		return
	}
	f.breaker.RecordSuccess()
}

func (f *Fetcher) observe(outcome string, elapsed time.Duration) {
	if f.onFetch != nil {
		f.onFetch(outcome, elapsed)
	}
}

func isRetryable(ctx context.Context, status int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	switch {
	case crerr.Is(err, ErrAccessDenied):
		return false
	case crerr.Is(err, ErrRateLimited), crerr.Is(err, ErrTransport):
		return true
	case crerr.Is(err, ErrUpstream):
		return status >= http.StatusInternalServerError
	default:
		return false
	}
}

// countsAsCircuitFailure ignores plain 4xx answers such as 404: the upstream is
// reachable, the page just does not exist.
func countsAsCircuitFailure(status int, err error) bool {
	if crerr.IsAny(err, ErrRateLimited, ErrAccessDenied, ErrTransport) {
		return true
	}
	return crerr.Is(err, ErrUpstream) && status >= http.StatusInternalServerError
}

func jitter(minDelay, maxDelay time.Duration) time.Duration {
	if maxDelay <= minDelay {
		return minDelay
	}
	return minDelay + rand.N(maxDelay-minDelay+1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
