package league

import (
	"fmt"
	"strings"
)

// DefaultCountry is stored when the competitions index omits a country.
const DefaultCountry = "International"

// League is a competition tracked on the upstream statistics site.
// Slug is the stable key used to build season, schedule and history URLs.
type League struct {
	ID         int64
	Title      string
	Country    string
	Slug       string
	ExternalID string
}

func (l League) Validate() error {
	if strings.TrimSpace(l.Slug) == "" {
		return fmt.Errorf("league slug is required")
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("league title is required")
	}

	return nil
}
