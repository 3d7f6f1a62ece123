package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator creates opaque run identifiers used to correlate log lines.
type Generator interface {
	NewID() (string, error)
}

// RunIDGenerator produces "<utc timestamp>-<8 random hex chars>" so IDs sort
// by start time.
type RunIDGenerator struct {
	now func() time.Time
}

func NewRunIDGenerator() *RunIDGenerator {
	return &RunIDGenerator{now: time.Now}
}

func (g *RunIDGenerator) NewID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return g.now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(buf), nil
}
