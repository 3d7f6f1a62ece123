package match

import (
	"fmt"
	"strings"
	"time"
)

// Match is one fixture of a league season.
// Scores and expected goals stay nil until the match is finished.
type Match struct {
	ID            int64
	ExternalID    string
	Date          time.Time
	Season        string
	LeagueID      int64
	HomeTeamID    int64
	AwayTeamID    int64
	HomeScore     *int
	AwayScore     *int
	HomeXG        *float64
	AwayXG        *float64
	IsFinished    bool
	DetailsParsed bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PendingDetail is a finished match whose player stats are not stored yet.
type PendingDetail struct {
	ID                 int64
	ExternalID         string
	HomeTeamID         int64
	AwayTeamID         int64
	HomeTeamExternalID string
	AwayTeamExternalID string
}

// TeamMatch is the read projection used by the team matches endpoint.
type TeamMatch struct {
	ID           int64
	Date         time.Time
	Season       string
	HomeTeamName string
	AwayTeamName string
	HomeScore    *int
	AwayScore    *int
	HomeXG       *float64
	AwayXG       *float64
	IsFinished   bool
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ExternalID) == "" {
		return fmt.Errorf("match external id is required")
	}
	if m.LeagueID <= 0 {
		return fmt.Errorf("match league id is required")
	}
	if m.HomeTeamID <= 0 || m.AwayTeamID <= 0 {
		return fmt.Errorf("match home and away team ids are required")
	}
	if m.Date.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if m.IsFinished && (m.HomeScore == nil || m.AwayScore == nil) {
		return fmt.Errorf("finished match requires both scores")
	}

	return nil
}
