package models

import "time"

// WatchlistEntry is one symbol the user tracks, usable as a scan universe.
type WatchlistEntry struct {
	Symbol  string    `json:"symbol"`
	Note    string    `json:"note,omitempty"`
	AddedAt time.Time `json:"added_at"`
}
