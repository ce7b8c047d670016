// Package session provides SQLite-backed playthrough history.
package session

import "time"

// Playthrough statuses.
const (
	StatusActive    = "active"
	StatusFinished  = "finished"
	StatusAbandoned = "abandoned"
)

// Playthrough is one run of a story, from StartGame until the next
// StartGame, Reset, or a terminal scene.
type Playthrough struct {
	ID        string
	Story     string
	Status    string // active, finished, abandoned
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Visit is one entry of a playthrough's scene history.
type Visit struct {
	ID            int
	PlaythroughID string
	Seq           int
	SceneID       string
	Op            string
	Timestamp     time.Time
}

// Summary provides a high-level view of a playthrough for listing.
type Summary struct {
	ID        string
	Story     string
	Status    string
	Visits    int
	LastScene string
	UpdatedAt time.Time
}
