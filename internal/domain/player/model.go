package player

import (
	"fmt"
	"strings"
	"time"
)

// Player is a footballer identified by the upstream player id.
type Player struct {
	ID         int64
	Name       string
	ExternalID string
	BirthDate  *time.Time
	Country    string
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ExternalID) == "" {
		return fmt.Errorf("player external id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
