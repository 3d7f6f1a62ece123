package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is a football club as listed on a league season page.
type Team struct {
	ID          int64
	Title       string
	ExternalID  string
	LogoURL     string
	LastUpdated time.Time
}

// Player is the squad projection returned with team details.
type Player struct {
	ID      int64
	Name    string
	Country string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ExternalID) == "" {
		return fmt.Errorf("team external id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("team title is required")
	}

	return nil
}
