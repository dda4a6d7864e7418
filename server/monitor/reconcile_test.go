package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hiveswitch/companion/server/chatproxy/clientmodels"
	"github.com/hiveswitch/companion/server/store/storemodels"
)

func TestReconcileUnreads(t *testing.T) {
	for _, testCase := range []struct {
		description     string
		channels        []clientmodels.Channel
		totals          map[string]int64
		readState       map[string]int64
		expectedUnreads map[string]int64
		expectedTotal   int64
	}{
		{
			description:     "no channels",
			expectedUnreads: map[string]int64{},
			expectedTotal:   0,
		},
		{
			description: "first observation assumes fully read even with remote messages",
			channels:    []clientmodels.Channel{{ID: "chan-a"}},
			totals:      map[string]int64{"chan-a": 7},
			readState:   map[string]int64{},
			expectedUnreads: map[string]int64{
				"chan-a": 0,
			},
			expectedTotal: 0,
		},
		{
			description: "unread is total minus read",
			channels:    []clientmodels.Channel{{ID: "chan-a"}, {ID: "chan-b"}},
			totals:      map[string]int64{"chan-a": 5, "chan-b": 3},
			readState:   map[string]int64{"chan-a": 3, "chan-b": 3},
			expectedUnreads: map[string]int64{
				"chan-a": 2,
				"chan-b": 0,
			},
			expectedTotal: 2,
		},
		{
			description: "unread floors at zero when read outruns total",
			channels:    []clientmodels.Channel{{ID: "chan-a"}},
			totals:      map[string]int64{"chan-a": 2},
			readState:   map[string]int64{"chan-a": 5},
			expectedUnreads: map[string]int64{
				"chan-a": 0,
			},
			expectedTotal: 0,
		},
		{
			description: "channel with no tracked activity defaults to zero total",
			channels:    []clientmodels.Channel{{ID: "chan-a"}},
			totals:      map[string]int64{},
			readState:   map[string]int64{},
			expectedUnreads: map[string]int64{
				"chan-a": 0,
			},
			expectedTotal: 0,
		},
		{
			description: "removed channel drops out of the derived maps",
			channels:    []clientmodels.Channel{{ID: "chan-b"}},
			totals:      map[string]int64{"chan-a": 5, "chan-b": 4},
			readState:   map[string]int64{"chan-a": 1, "chan-b": 1},
			expectedUnreads: map[string]int64{
				"chan-b": 3,
			},
			expectedTotal: 3,
		},
	} {
		t.Run(testCase.description, func(t *testing.T) {
			result := reconcileUnreads(testCase.channels, testCase.totals, testCase.readState)

			assert.Equal(t, testCase.expectedUnreads, result.UnreadByChannel)
			assert.Equal(t, testCase.expectedTotal, result.TotalUnread)
		})
	}
}

func TestReconcileUnreadsReadStateDefaults(t *testing.T) {
	channels := []clientmodels.Channel{{ID: "new"}, {ID: "known"}}
	totals := map[string]int64{"new": 9, "known": 4}
	readState := map[string]int64{"known": 2}

	result := reconcileUnreads(channels, totals, readState)

	// The never-seen channel is baselined at its current total.
	assert.Equal(t, map[string]int64{"new": 9, "known": 2}, result.ReadState)
	assert.Equal(t, map[string]int64{"new": 9, "known": 4}, result.Totals)
}

func TestReconcileUnreadsIsIdempotent(t *testing.T) {
	channels := []clientmodels.Channel{{ID: "chan-a"}}
	totals := map[string]int64{"chan-a": 6}

	first := reconcileUnreads(channels, totals, map[string]int64{"chan-a": 4})
	second := reconcileUnreads(channels, totals, first.ReadState)

	// Read-state never decreases across repeated reconciliations.
	assert.Equal(t, first.ReadState, second.ReadState)
	assert.Equal(t, first.UnreadByChannel, second.UnreadByChannel)
}

func TestMergeReadState(t *testing.T) {
	channels := []clientmodels.Channel{{ID: "chan-a"}, {ID: "chan-b"}}
	totals := map[string]int64{"chan-a": 5, "chan-b": 4}

	result := reconcileUnreads(channels, totals, map[string]int64{"chan-a": 3, "chan-b": 4})
	assert.Equal(t, int64(2), result.TotalUnread)

	// chan-a was marked read mid-cycle; chan-b's stored marker is stale.
	result.mergeReadState(map[string]int64{"chan-a": 5, "chan-b": 1})

	assert.Equal(t, map[string]int64{"chan-a": 5, "chan-b": 4}, result.ReadState)
	assert.Equal(t, map[string]int64{"chan-a": 0, "chan-b": 0}, result.UnreadByChannel)
	assert.Equal(t, int64(0), result.TotalUnread)
}

func TestAdvanceActivity(t *testing.T) {
	for _, testCase := range []struct {
		description string
		prev        map[string]int64
		channels    []storemodels.Channel
		expected    map[string]int64
	}{
		{
			description: "new channel gets its current timestamp as baseline",
			prev:        map[string]int64{},
			channels:    []storemodels.Channel{{ID: "chan-a", LastPostAt: 1000}},
			expected:    map[string]int64{"chan-a": 1000},
		},
		{
			description: "advanced timestamp wins",
			prev:        map[string]int64{"chan-a": 1000},
			channels:    []storemodels.Channel{{ID: "chan-a", LastPostAt: 2000}},
			expected:    map[string]int64{"chan-a": 2000},
		},
		{
			description: "regressed timestamp keeps the old marker",
			prev:        map[string]int64{"chan-a": 3000},
			channels:    []storemodels.Channel{{ID: "chan-a", LastPostAt: 2000}},
			expected:    map[string]int64{"chan-a": 3000},
		},
		{
			description: "removed channel drops out",
			prev:        map[string]int64{"chan-a": 3000, "gone": 500},
			channels:    []storemodels.Channel{{ID: "chan-a", LastPostAt: 3000}},
			expected:    map[string]int64{"chan-a": 3000},
		},
	} {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expected, advanceActivity(testCase.prev, testCase.channels))
		})
	}
}
