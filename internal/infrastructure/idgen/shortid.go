// Package idgen produces user identifiers: short, URL-safe and non-sequential.
package idgen

import (
	"fmt"
	"time"

	"github.com/teris-io/shortid"
)

// Shortid generates ids with the shortid algorithm over a 64-character
// URL-safe alphabet. Safe for concurrent use.
type Shortid struct {
	sid *shortid.Shortid
}

// NewShortid builds a generator for worker (0-31). A zero seed derives one
// from the clock.
func NewShortid(worker uint8, seed uint64) (*Shortid, error) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sid, err := shortid.New(worker, shortid.DefaultABC, seed)
	if err != nil {
		return nil, fmt.Errorf("idgen: %w", err)
	}
	return &Shortid{sid: sid}, nil
}

func (g *Shortid) NewID() (string, error) {
	return g.sid.Generate()
}
