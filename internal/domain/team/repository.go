package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, items []Team) (int, error)
	List(ctx context.Context, offset, limit int) ([]Team, error)
	GetByTitle(ctx context.Context, title string) (Team, bool, error)
	ExternalIDMap(ctx context.Context) (map[string]int64, error)
	ListPlayers(ctx context.Context, teamID int64) ([]Player, error)
}
