package domain

import "time"

// SyncStats holds statistics about one sync tick.
type SyncStats struct {
	RunID     string
	Contexts  int
	Succeeded int
	Failed    int
	Skipped   int
	Products  int
	Duration  time.Duration
}
