package httpapi

import (
	"time"

	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/team"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

type pipelineStatusDTO struct {
	Leagues        int `json:"leagues"`
	PendingDetails int `json:"pending_details"`
}

type leagueDTO struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Country    string `json:"country"`
	Slug       string `json:"slug"`
	ExternalID string `json:"external_id,omitempty"`
}

type teamDTO struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	LogoURL string `json:"logo_url,omitempty"`
}

type teamPlayerDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

type teamDetailsDTO struct {
	teamDTO
	LastUpdated string          `json:"last_updated,omitempty"`
	Players     []teamPlayerDTO `json:"players"`
}

// Scores and xG stay null when the upstream page had no value.
type teamMatchDTO struct {
	ID           int64    `json:"id"`
	Date         string   `json:"date"`
	Season       string   `json:"season"`
	HomeTeamName string   `json:"home_team_name"`
	AwayTeamName string   `json:"away_team_name"`
	HomeScore    *int     `json:"home_score"`
	AwayScore    *int     `json:"away_score"`
	HomeXG       *float64 `json:"home_xg"`
	AwayXG       *float64 `json:"away_xg"`
	IsFinished   bool     `json:"is_finished"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:         v.ID,
		Title:      v.Title,
		Country:    v.Country,
		Slug:       v.Slug,
		ExternalID: v.ExternalID,
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:      v.ID,
		Title:   v.Title,
		LogoURL: v.LogoURL,
	}
}

func teamDetailsToDTO(v usecase.TeamDetails) teamDetailsDTO {
	players := make([]teamPlayerDTO, 0, len(v.Players))
	for _, p := range v.Players {
		players = append(players, teamPlayerDTO{
			ID:      p.ID,
			Name:    p.Name,
			Country: p.Country,
		})
	}

	return teamDetailsDTO{
		teamDTO:     teamToDTO(v.Team),
		LastUpdated: formatOptionalTime(v.Team.LastUpdated),
		Players:     players,
	}
}

func teamMatchToDTO(v match.TeamMatch) teamMatchDTO {
	return teamMatchDTO{
		ID:           v.ID,
		Date:         v.Date.Format(time.DateOnly),
		Season:       v.Season,
		HomeTeamName: v.HomeTeamName,
		AwayTeamName: v.AwayTeamName,
		HomeScore:    v.HomeScore,
		AwayScore:    v.AwayScore,
		HomeXG:       v.HomeXG,
		AwayXG:       v.AwayXG,
		IsFinished:   v.IsFinished,
	}
}

func formatOptionalTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
