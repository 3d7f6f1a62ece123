package usecase

import (
	"time"

	"github.com/riskibarqy/football-stats/external/fbref"
	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/domain/playerstats"
	"github.com/riskibarqy/football-stats/internal/domain/team"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

// SyncDeps are the collaborators shared by the sync services. The fetcher is
// not part of it: every run opens its own.
type SyncDeps struct {
	Leagues  league.Repository
	Teams    team.Repository
	Matches  match.Repository
	Players  player.Repository
	Stats    playerstats.Repository
	Tx       Transactor
	Parser   PageParser
	URLs     fbref.URLs
	Logger   *logging.Logger
	Observer RunObserver
	Now      func() time.Time
}

func (d SyncDeps) normalized() SyncDeps {
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	if d.Observer == nil {
		d.Observer = noopRunObserver{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.URLs.Base() == "" {
		d.URLs = fbref.NewURLs("")
	}
	return d
}

func (d SyncDeps) runner() unitRunner {
	return unitRunner{logger: d.Logger, observer: d.Observer, now: d.Now}
}
