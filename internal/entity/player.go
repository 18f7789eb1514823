package entity

import "time"

type Player struct {
	ID   string `json:"id"`
	Mark string `json:"mark,omitempty"`
}

// SessionSnapshot is a read-only view of a session, mirrored to storage after each change.
type SessionSnapshot struct {
	ID          string         `json:"id"`
	Phase       Phase          `json:"phase"`
	Board       Board          `json:"board"`
	CurrentTurn string         `json:"currentTurn"`
	Winner      string         `json:"winner,omitempty"`
	Scores      map[string]int `json:"scores"`
	Players     []Player       `json:"players"`
	Started     bool           `json:"started"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
