package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, items []Match) (int, error)
	ListPendingDetails(ctx context.Context, limit int, excludeIDs []int64) ([]PendingDetail, error)
	MarkDetailsParsed(ctx context.Context, matchID int64) error
	ListFinishedByTeam(ctx context.Context, teamID int64, offset, limit int) ([]TeamMatch, error)
	CountPendingDetails(ctx context.Context) (int, error)
}
