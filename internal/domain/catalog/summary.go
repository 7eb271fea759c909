package catalog

import "time"

// SyncSummary is the result of one reconciliation pass. The three counts
// cover every remote item that was processed: imported + updated + errored
// equals the number of processed snapshot entries.
type SyncSummary struct {
	// Imported is the number of remote items created locally
	Imported int `json:"imported"`
	// Updated is the number of remote items that refreshed an existing local item
	Updated int `json:"updated"`
	// Errored is the number of remote items that failed to upsert
	Errored int `json:"errored"`
	// TotalRemote is the size of the remote snapshot as reported by the provider
	TotalRemote int `json:"total_remote"`
	// SyncedAt is when the pass finished
	SyncedAt time.Time `json:"synced_at"`
}

// Processed returns the number of snapshot entries this pass handled
func (s SyncSummary) Processed() int {
	return s.Imported + s.Updated + s.Errored
}

// AllFailed returns true if the pass processed items and none succeeded
func (s SyncSummary) AllFailed() bool {
	return s.Processed() > 0 && s.Imported == 0 && s.Updated == 0
}
