package fbref

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrRateLimited   = crerr.New("fbref rate limited")
	ErrAccessDenied  = crerr.New("fbref access denied")
	ErrUpstream      = crerr.New("fbref upstream error")
	ErrTransport     = crerr.New("fbref transport error")
	ErrCircuitOpen   = crerr.New("fbref circuit breaker is open")
	ErrFetcherClosed = crerr.New("fbref fetcher is closed")
)

// FetchError is returned by Fetch once the retry budget is spent or a
// non-retryable response is seen. Err carries one of the sentinels above.
type FetchError struct {
	URL        string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status=%d attempts=%d: %v", e.URL, e.StatusCode, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s: attempts=%d: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
