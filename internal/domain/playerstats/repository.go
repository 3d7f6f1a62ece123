package playerstats

import "context"

// Repository describes player match stat persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, items []MatchStat) (int, error)
}
