package cache

import (
	"context"

	basecache "github.com/riskibarqy/football-stats/internal/platform/cache"
)

type transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Transactor drops every cached read once a unit of work commits. The
// ingestion path writes through the plain repositories, so this is the only
// point where API reads learn about new rows.
type Transactor struct {
	next  transactor
	cache *basecache.Store
}

func NewTransactor(next transactor, cache *basecache.Store) *Transactor {
	return &Transactor{next: next, cache: cache}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := t.next.WithinTx(ctx, fn); err != nil {
		return err
	}
	t.cache.DeletePrefix(ctx, leaguePrefix, teamPrefix, matchPrefix)
	return nil
}
