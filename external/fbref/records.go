package fbref

import "time"

type LeagueRecord struct {
	Title      string
	Country    string
	Slug       string
	ExternalID string
}

type TeamRecord struct {
	Title      string
	ExternalID string
	LogoURL    string
}

type SeasonRecord struct {
	Season string
	URL    string
}

// MatchRecord is one schedule row. Team references are upstream ids; callers
// resolve them to surrogate ids before persisting.
type MatchRecord struct {
	ExternalID         string
	Date               time.Time
	Season             string
	LeagueID           int64
	HomeTeamExternalID string
	AwayTeamExternalID string
	HomeScore          *int
	AwayScore          *int
	HomeXG             *float64
	AwayXG             *float64
	IsFinished         bool
}

type PlayerRecord struct {
	Name       string
	ExternalID string
	Country    string
}

// StatRecord is one player's summary line. PlayerExternalID and TeamExternalID
// are resolved by the caller.
type StatRecord struct {
	MatchID            int64
	PlayerExternalID   string
	TeamExternalID     string
	Minutes            int
	Position           string
	Rating             *float64
	Goals              int
	Assists            int
	Shots              int
	ShotsOnTarget      int
	XG                 float64
	NPXG               float64
	XA                 float64
	Touches            int
	PassesCompleted    int
	PassesAttempted    int
	ProgressiveCarries int
	Tackles            int
	Interceptions      int
	Blocks             int
	OtherStats         map[string]any
}

type MatchDetails struct {
	Players []PlayerRecord
	Stats   []StatRecord
}
