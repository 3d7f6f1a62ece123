package fbref

import (
	"fmt"
	"strings"
)

const DefaultBaseURL = "https://fbref.com"

const (
	statsSuffix    = "-Stats"
	scheduleSuffix = "-Scores-and-Fixtures"
	historySuffix  = "-Seasons"
)

// URLs builds upstream page addresses. League pages are keyed by the league
// external id plus its slug, e.g. /en/comps/9/Premier-League-Stats.
type URLs struct {
	base string
}

func NewURLs(baseURL string) URLs {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return URLs{base: baseURL}
}

func (u URLs) Base() string {
	return u.base
}

func (u URLs) Leagues() string {
	return u.base + "/en/comps/"
}

func (u URLs) Season(leagueExternalID, slug string) string {
	return fmt.Sprintf("%s/en/comps/%s/%s", u.base, leagueExternalID, slug)
}

func (u URLs) History(leagueExternalID, slug string) string {
	return fmt.Sprintf("%s/en/comps/%s/history/%s", u.base, leagueExternalID, HistorySlug(slug))
}

func (u URLs) Schedule(leagueExternalID, slug string) string {
	return fmt.Sprintf("%s/en/comps/%s/schedule/%s", u.base, leagueExternalID, ScheduleSlug(slug))
}

// SeasonSchedule turns a season stats URL into the season's fixtures URL:
// /en/comps/9/2023-2024/2023-2024-Premier-League-Stats becomes
// /en/comps/9/2023-2024/schedule/2023-2024-Premier-League-Scores-and-Fixtures.
// URLs without a "-Stats" suffix are returned unchanged.
func (u URLs) SeasonSchedule(seasonURL, leagueExternalID string) string {
	if !strings.Contains(seasonURL, statsSuffix) {
		return seasonURL
	}
	out := strings.Replace(seasonURL, statsSuffix, scheduleSuffix, 1)

	idSegment := "/" + leagueExternalID + "/"
	idx := strings.Index(out, idSegment)
	if idx < 0 {
		return out
	}
	// The schedule segment goes right before the last path element.
	last := strings.LastIndex(out, "/")
	if last <= idx {
		return out
	}
	return out[:last] + "/schedule" + out[last:]
}

func (u URLs) Match(matchExternalID string) string {
	return fmt.Sprintf("%s/en/matches/%s", u.base, matchExternalID)
}

// Absolute resolves a site-relative href against the base URL.
func (u URLs) Absolute(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return u.base + href
}

func ScheduleSlug(slug string) string {
	return strings.Replace(slug, statsSuffix, scheduleSuffix, 1)
}

func HistorySlug(slug string) string {
	return strings.Replace(slug, statsSuffix, historySuffix, 1)
}
