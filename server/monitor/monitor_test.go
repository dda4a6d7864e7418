package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hiveswitch/companion/server/store/storemodels"
)

func TestStartDisarmedClearsDerivedState(t *testing.T) {
	m := newTestMonitor()
	settings := storemodels.DefaultSettings()
	settings.NotificationsEnabled = false

	m.store.On("GetSettings").Return(settings, nil)
	m.store.On("SetUnreadCounts", map[string]int64{}).Return(nil).Once()
	m.store.On("SetBadge", storemodels.Badge{}).Return(nil).Once()

	err := m.Start()
	assert.NoError(t, err)

	// Disarmed: no timer was created to stop.
	m.mu.Lock()
	assert.Nil(t, m.stopc)
	m.mu.Unlock()

	m.store.AssertExpectations(t)
}

func TestRunPollCycleDropsOverlappingInvocation(t *testing.T) {
	m := newTestMonitor()

	m.inFlight.Store(true)
	m.RunPollCycle()

	m.store.AssertNotCalled(t, "GetSettings")
}

func TestReloadIsLevelTriggered(t *testing.T) {
	m := newTestMonitor()
	settings := storemodels.DefaultSettings()
	settings.ChatToken = "token"

	// Armed with a session: the worker fires immediately, so give the
	// cycle enough mocks to complete; the values themselves don't matter
	// here.
	m.store.On("GetSettings").Return(settings, nil)
	m.client.On("GetChannels", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	assert.NoError(t, m.Start())
	m.mu.Lock()
	first := m.stopc
	m.mu.Unlock()
	assert.NotNil(t, first)

	assert.NoError(t, m.Reload())
	m.mu.Lock()
	second := m.stopc
	m.mu.Unlock()
	assert.NotNil(t, second)
	assert.NotEqual(t, first, second)

	// The first timer channel was closed by the re-arm.
	select {
	case <-first:
	default:
		t.Fatal("expected the previous timer to be stopped")
	}

	m.Quit()
}
