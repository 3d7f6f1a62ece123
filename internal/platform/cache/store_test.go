package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []string{"Premier-League-Stats"}, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := GetOrLoad(context.Background(), store, "league:list", loader)
			if err != nil {
				errCh <- err
				return
			}
			if len(v) != 1 || v[0] != "Premier-League-Stats" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestGetOrLoad_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2025, 10, 1, 3, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	ctx := context.Background()
	first, _ := GetOrLoad(ctx, store, "k", loader)
	second, _ := GetOrLoad(ctx, store, "k", loader)
	if first != 1 || second != 1 {
		t.Fatalf("expected cached value, got %d then %d", first, second)
	}

	now = now.Add(time.Minute)
	third, _ := GetOrLoad(ctx, store, "k", loader)
	if third != 2 {
		t.Fatalf("expected reload after ttl, got %d", third)
	}
}

func TestGetOrLoad_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	boom := errors.New("db down")
	fail := true
	loader := func(context.Context) (string, error) {
		if fail {
			return "", boom
		}
		return "ok", nil
	}

	if _, err := GetOrLoad(context.Background(), store, "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	fail = false
	got, err := GetOrLoad(context.Background(), store, "k", loader)
	if err != nil || got != "ok" {
		t.Fatalf("expected reload, got %q err=%v", got, err)
	}
}

func TestGetOrLoad_NilStoreCallsLoader(t *testing.T) {
	t.Parallel()

	got, err := GetOrLoad(context.Background(), nil, "k", func(context.Context) (string, error) {
		return "direct", nil
	})
	if err != nil || got != "direct" {
		t.Fatalf("unexpected result %q err=%v", got, err)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "team:list:0:100", 1)
	store.Set(ctx, "team:title:Arsenal", 2)
	store.Set(ctx, "match:team:7:0:100", 3)
	store.Set(ctx, "league:list", 4)

	store.DeletePrefix(ctx, "team:", "match:")

	if store.Len() != 1 {
		t.Fatalf("expected one entry left, got %d", store.Len())
	}
	if _, ok := store.Get(ctx, "league:list"); !ok {
		t.Fatalf("expected league:list to survive")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
