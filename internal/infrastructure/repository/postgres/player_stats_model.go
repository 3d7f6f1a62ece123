package postgres

type playerMatchStatInsertModel struct {
	MatchID            int64    `db:"match_id"`
	PlayerID           int64    `db:"player_id"`
	TeamID             int64    `db:"team_id"`
	Minutes            int      `db:"minutes"`
	Position           *string  `db:"position"`
	Rating             *float64 `db:"rating"`
	Goals              int      `db:"goals"`
	Assists            int      `db:"assists"`
	Shots              int      `db:"shots"`
	ShotsOnTarget      int      `db:"shots_on_target"`
	XG                 float64  `db:"xg"`
	NPXG               float64  `db:"npxg"`
	XA                 float64  `db:"xa"`
	Touches            int      `db:"touches"`
	PassesCompleted    int      `db:"passes_completed"`
	PassesAttempted    int      `db:"passes_attempted"`
	ProgressiveCarries int      `db:"progressive_carries"`
	Tackles            int      `db:"tackles"`
	Interceptions      int      `db:"interceptions"`
	Blocks             int      `db:"blocks"`
	OtherStats         string   `db:"other_stats"`
}

// playerMatchStatMutableColumns is every non-key column refreshed on conflict.
var playerMatchStatMutableColumns = []string{
	"team_id",
	"minutes",
	"position",
	"rating",
	"goals",
	"assists",
	"shots",
	"shots_on_target",
	"xg",
	"npxg",
	"xa",
	"touches",
	"passes_completed",
	"passes_attempted",
	"progressive_carries",
	"tackles",
	"interceptions",
	"blocks",
	"other_stats",
}
