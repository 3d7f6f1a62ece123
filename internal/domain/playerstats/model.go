package playerstats

import "fmt"

// MatchStat is one player's line in one match. (MatchID, PlayerID) is unique.
type MatchStat struct {
	ID                 int64
	MatchID            int64
	PlayerID           int64
	TeamID             int64
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

func (s MatchStat) Validate() error {
	if s.MatchID <= 0 {
		return fmt.Errorf("stat match id is required")
	}
	if s.PlayerID <= 0 {
		return fmt.Errorf("stat player id is required")
	}
	if s.TeamID <= 0 {
		return fmt.Errorf("stat team id is required")
	}

	return nil
}
