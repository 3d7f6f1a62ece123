package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, items []Player) (int, error)
	ExternalIDMap(ctx context.Context, externalIDs []string) (map[string]int64, error)
}
