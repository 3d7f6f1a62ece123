package fbref

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const scheduleDateLayout = "2006-01-02"

var (
	penaltyScorePattern = regexp.MustCompile(`\(\s*\d+\s*\)`)
	digitGroupPattern   = regexp.MustCompile(`\d+`)
)

// otherStatColumns are summary cells without a dedicated column in the stats table.
var otherStatColumns = []string{
	"cards_yellow",
	"cards_red",
	"pens_made",
	"pens_att",
	"sca",
	"gca",
	"carries",
	"take_ons",
	"take_ons_won",
}

// Parser binds the page parsers to a base URL for resolving relative links.
type Parser struct {
	urls URLs
}

func NewParser(urls URLs) Parser {
	return Parser{urls: urls}
}

func (p Parser) Leagues(html string) []LeagueRecord {
	return ParseLeagues(html)
}

func (p Parser) Teams(html string) []TeamRecord {
	return ParseTeams(html)
}

func (p Parser) LeagueHistory(html string) []SeasonRecord {
	return ParseLeagueHistory(html, p.urls)
}

func (p Parser) Schedule(html string, leagueID int64, season string) []MatchRecord {
	return ParseSchedule(html, leagueID, season)
}

func (p Parser) MatchDetails(html string, matchID int64, homeExternalID, awayExternalID string) MatchDetails {
	return ParseMatchDetails(html, matchID, homeExternalID, awayExternalID)
}

// ParseLeagues reads the competitions index. A row contributes a league only
// when one of its links looks like /en/comps/{numeric id}/{slug}.
func ParseLeagues(html string) []LeagueRecord {
	doc, ok := parseDocument(html)
	if !ok {
		return []LeagueRecord{}
	}

	out := make([]LeagueRecord, 0)
	seen := make(map[string]struct{})
	doc.Find("table.stats_table tbody tr").Each(func(_ int, row *goquery.Selection) {
		header := row.Find(`th[data-stat="league_name"]`).First()
		if header.Length() == 0 {
			return
		}

		var parts []string
		row.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			candidate := strings.Split(link.AttrOr("href", ""), "/")
			if len(candidate) == 5 && isDigits(candidate[3]) {
				parts = candidate
				return false
			}
			return true
		})
		if parts == nil {
			return
		}

		slug := parts[4]
		if _, dup := seen[slug]; dup {
			return
		}
		seen[slug] = struct{}{}

		country := cellText(row, "country")
		if country == "" {
			country = "International"
		}
		out = append(out, LeagueRecord{
			Title:      strings.TrimSpace(header.Text()),
			Country:    country,
			Slug:       slug,
			ExternalID: parts[3],
		})
	})

	return out
}

func ParseTeams(html string) []TeamRecord {
	doc, ok := parseDocument(html)
	if !ok {
		return []TeamRecord{}
	}

	out := make([]TeamRecord, 0)
	seen := make(map[string]struct{})
	doc.Find("table.stats_table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find(`td[data-stat="team"]`).First()
		link := cell.Find("a").First()
		if link.Length() == 0 {
			return
		}

		externalID, ok := pathSegment(link.AttrOr("href", ""), 3)
		if !ok {
			return
		}
		if _, dup := seen[externalID]; dup {
			return
		}
		seen[externalID] = struct{}{}

		out = append(out, TeamRecord{
			Title:      strings.TrimSpace(link.Text()),
			ExternalID: externalID,
			LogoURL:    strings.TrimSpace(cell.Find("img").First().AttrOr("src", "")),
		})
	})

	return out
}

// ParseLeagueHistory lists seasons newest first, as the history table orders them.
func ParseLeagueHistory(html string, urls URLs) []SeasonRecord {
	doc, ok := parseDocument(html)
	if !ok {
		return []SeasonRecord{}
	}

	out := make([]SeasonRecord, 0)
	doc.Find("table.stats_table").First().Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		header := row.Find(`th[data-stat="year_id"]`).First()
		if header.Length() == 0 {
			header = row.Find(`th[data-stat="season"]`).First()
		}
		link := header.Find("a").First()
		href := strings.TrimSpace(link.AttrOr("href", ""))
		if link.Length() == 0 || href == "" {
			return
		}

		out = append(out, SeasonRecord{
			Season: strings.TrimSpace(link.Text()),
			URL:    urls.Absolute(href),
		})
	})

	return out
}

func ParseSchedule(html string, leagueID int64, season string) []MatchRecord {
	doc, ok := parseDocument(html)
	if !ok {
		return []MatchRecord{}
	}

	out := make([]MatchRecord, 0)
	doc.Find(`table[id^="sched_"]`).First().Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if isSpacerRow(row) {
			return
		}

		date, err := time.Parse(scheduleDateLayout, cellText(row, "date"))
		if err != nil {
			return
		}
		matchID, ok := linkSegment(row, "match_report")
		if !ok {
			return
		}
		homeID, ok := linkSegment(row, "home_team")
		if !ok {
			return
		}
		awayID, ok := linkSegment(row, "away_team")
		if !ok {
			return
		}

		record := MatchRecord{
			ExternalID:         matchID,
			Date:               date,
			Season:             season,
			LeagueID:           leagueID,
			HomeTeamExternalID: homeID,
			AwayTeamExternalID: awayID,
		}
		record.HomeScore, record.AwayScore, record.IsFinished = parseScore(cellText(row, "score"))
		if record.IsFinished {
			record.HomeXG = parseOptionalFloat(cellText(row, "home_xg"))
			record.AwayXG = parseOptionalFloat(cellText(row, "away_xg"))
		}
		out = append(out, record)
	})

	return out
}

// ParseMatchDetails reads the home and away summary tables
// (#stats_{team external id}_summary) of a match report.
func ParseMatchDetails(html string, matchID int64, homeExternalID, awayExternalID string) MatchDetails {
	out := MatchDetails{Players: []PlayerRecord{}, Stats: []StatRecord{}}
	doc, ok := parseDocument(html)
	if !ok {
		return out
	}

	seen := make(map[string]struct{})
	for _, teamExternalID := range []string{homeExternalID, awayExternalID} {
		if strings.TrimSpace(teamExternalID) == "" {
			continue
		}
		table := doc.Find(`table[id="stats_` + teamExternalID + `_summary"]`).First()
		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			if isSpacerRow(row) {
				return
			}
			link := row.Find(`th[data-stat="player"] a`).First()
			if link.Length() == 0 {
				return
			}
			playerID, ok := pathSegment(link.AttrOr("href", ""), 3)
			if !ok {
				return
			}

			if _, dup := seen[playerID]; !dup {
				seen[playerID] = struct{}{}
				out.Players = append(out.Players, PlayerRecord{
					Name:       strings.TrimSpace(link.Text()),
					ExternalID: playerID,
					Country:    lastToken(cellText(row, "nationality")),
				})
			}

			out.Stats = append(out.Stats, StatRecord{
				MatchID:            matchID,
				PlayerExternalID:   playerID,
				TeamExternalID:     teamExternalID,
				Minutes:            cellInt(row, "minutes"),
				Position:           cellText(row, "position"),
				Goals:              cellInt(row, "goals"),
				Assists:            cellInt(row, "assists"),
				Shots:              cellInt(row, "shots"),
				ShotsOnTarget:      cellInt(row, "shots_on_target"),
				XG:                 cellFloat(row, "xg"),
				NPXG:               cellFloat(row, "npxg"),
				XA:                 cellFloat(row, "xg_assist"),
				Touches:            cellInt(row, "touches"),
				PassesCompleted:    cellInt(row, "passes_completed"),
				PassesAttempted:    cellInt(row, "passes"),
				ProgressiveCarries: cellInt(row, "progressive_carries"),
				Tackles:            cellInt(row, "tackles"),
				Interceptions:      cellInt(row, "interceptions"),
				Blocks:             cellInt(row, "blocks"),
				OtherStats:         otherStats(row),
			})
		})
	}

	return out
}

// parseScore treats a cell with exactly two numbers as a final score.
// Shoot-out figures in parentheses, as in "(4) 1–1 (3)", are ignored.
func parseScore(text string) (*int, *int, bool) {
	text = penaltyScorePattern.ReplaceAllString(text, " ")
	groups := digitGroupPattern.FindAllString(text, -1)
	if len(groups) != 2 {
		return nil, nil, false
	}
	home, err := strconv.Atoi(groups[0])
	if err != nil {
		return nil, nil, false
	}
	away, err := strconv.Atoi(groups[1])
	if err != nil {
		return nil, nil, false
	}
	return &home, &away, true
}

func otherStats(row *goquery.Selection) map[string]any {
	out := make(map[string]any)
	for _, column := range otherStatColumns {
		if cell(row, column).Length() == 0 {
			continue
		}
		out[column] = cellInt(row, column)
	}
	return out
}
