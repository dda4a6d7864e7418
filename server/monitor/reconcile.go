package monitor

import (
	"github.com/hiveswitch/companion/server/chatproxy/clientmodels"
	"github.com/hiveswitch/companion/server/store/storemodels"
)

// reconcileResult is the full derived view for one cycle. Everything is
// recomputed from scratch; nothing is incrementally patched, so state mutated
// elsewhere (messages read on another device, cleared storage) converges on
// the next cycle.
type reconcileResult struct {
	UnreadByChannel map[string]int64
	TotalUnread     int64
	Totals          map[string]int64
	ReadState       map[string]int64
}

// reconcileUnreads derives per-channel and aggregate unread counts from the
// remote channel list, the authoritative message totals and the persisted
// read-state.
//
// A channel observed for the first time gets its read-state defaulted to its
// current total, so a fresh install (or cleared storage) never produces an
// unread burst. Channels missing from the remote list drop out of every
// derived map; there is no tombstoning.
func reconcileUnreads(channels []clientmodels.Channel, totals map[string]int64, readState map[string]int64) reconcileResult {
	result := reconcileResult{
		UnreadByChannel: make(map[string]int64, len(channels)),
		Totals:          make(map[string]int64, len(channels)),
		ReadState:       make(map[string]int64, len(channels)),
	}

	for _, channel := range channels {
		total := totals[channel.ID]

		read, seen := readState[channel.ID]
		if !seen {
			read = total
		}

		unread := total - read
		if unread < 0 {
			unread = 0
		}

		result.UnreadByChannel[channel.ID] = unread
		result.Totals[channel.ID] = total
		result.ReadState[channel.ID] = read
		result.TotalUnread += unread
	}

	return result
}

// mergeReadState folds a newer stored read-state into the result: any channel
// whose stored read marker outran the one this cycle computed keeps the stored
// value, and its unread count is recomputed from it. This is how a mark-read
// that landed mid-cycle survives the cycle's persist step.
func (r *reconcileResult) mergeReadState(stored map[string]int64) {
	for id, read := range r.ReadState {
		if stored[id] <= read {
			continue
		}
		r.ReadState[id] = stored[id]

		unread := r.Totals[id] - stored[id]
		if unread < 0 {
			unread = 0
		}
		r.TotalUnread += unread - r.UnreadByChannel[id]
		r.UnreadByChannel[id] = unread
	}
}

// advanceActivity merges the current last-post timestamps into the previous
// activity-state. Markers are monotonic: a channel whose timestamp did not
// advance keeps its old value.
func advanceActivity(prev map[string]int64, channels []storemodels.Channel) map[string]int64 {
	activity := make(map[string]int64, len(channels))
	for _, channel := range channels {
		marker := channel.LastPostAt
		if old, ok := prev[channel.ID]; ok && old > marker {
			marker = old
		}
		activity[channel.ID] = marker
	}
	return activity
}
