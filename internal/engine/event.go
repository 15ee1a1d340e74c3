package engine

import "time"

// Event is a notable thing that happened during play.
type Event struct {
	At          time.Time `json:"at"`
	Description string    `json:"description"`
	Category    string    `json:"category"` // "action", "economy", "prestige", "system"
}
