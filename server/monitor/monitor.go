package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hiveswitch/companion/server/chatproxy"
	"github.com/hiveswitch/companion/server/hive"
	"github.com/hiveswitch/companion/server/metrics"
	"github.com/hiveswitch/companion/server/recovery"
	"github.com/hiveswitch/companion/server/store"
	"github.com/hiveswitch/companion/server/store/storemodels"
)

const latestPostLimit = 1

// Monitor drives the poll pipeline: fetch remote channel state, recover the
// session when the proxy rejects it, reconcile unread counts, decide on
// notifications and keep the badge in sync. There is no push channel from the
// proxy; everything is poll-driven.
type Monitor struct {
	client  chatproxy.Client
	hive    hive.Client
	store   store.Store
	metrics *metrics.Metrics
	log     logrus.FieldLogger

	// now is swapped out in tests.
	now func() time.Time

	mu       sync.Mutex
	stopc    chan struct{}
	quitting atomic.Bool
	inFlight atomic.Bool
}

func New(client chatproxy.Client, hiveClient hive.Client, st store.Store, m *metrics.Metrics, log logrus.FieldLogger) *Monitor {
	return &Monitor{
		client:  client,
		hive:    hiveClient,
		store:   st,
		metrics: m,
		log:     log.WithField("component", "monitor"),
		now:     time.Now,
	}
}

// Start reads the current settings and arms or disarms the poll timer
// accordingly. It is level-triggered: any settings change goes through here
// again, tearing down the previous timer first. Disabling notifications
// clears the badge and unread map immediately rather than waiting for the
// next cycle.
func (m *Monitor) Start() error {
	m.stopTimer()

	settings, err := m.store.GetSettings()
	if err != nil {
		return err
	}

	if !settings.NotificationsEnabled {
		m.log.Debug("Notifications disabled, monitor disarmed")
		m.clearDerivedState()
		return nil
	}

	interval := settings.NotificationInterval
	if interval < 1 {
		interval = 1
	}
	period := time.Duration(interval) * time.Minute

	m.mu.Lock()
	stopc := make(chan struct{})
	m.stopc = stopc
	m.mu.Unlock()

	m.log.WithField("period", period.String()).Info("Monitor armed")

	// A closed stop channel is a normal exit for this worker, not a crash to
	// restart from.
	stopped := func() bool {
		select {
		case <-stopc:
			return true
		default:
			return m.quitting.Load()
		}
	}
	recovery.GoWorker("monitor_loop", m.log, m.metrics, stopped, func() {
		m.loop(period, stopc)
	})
	return nil
}

// Reload re-evaluates the timer after a settings change.
func (m *Monitor) Reload() error {
	return m.Start()
}

// Quit permanently stops the monitor for process shutdown.
func (m *Monitor) Quit() {
	m.quitting.Store(true)
	m.stopTimer()
}

func (m *Monitor) stopTimer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopc != nil {
		close(m.stopc)
		m.stopc = nil
	}
}

func (m *Monitor) loop(period time.Duration, stopc chan struct{}) {
	// The arming event itself counts as a poll trigger.
	m.RunPollCycle()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stopc:
			return
		case <-ticker.C:
			m.RunPollCycle()
		}
	}
}

// RunPollCycle executes one full pipeline pass. Overlapping invocations are
// dropped, not queued: the timer, settings changes and startup all funnel
// through here, and two concurrent passes would race on the persisted
// read-state maps.
func (m *Monitor) RunPollCycle() {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.log.Debug("Poll cycle already running, dropping overlapping invocation")
		m.metrics.ObservePollCycle(metrics.PollResultSkipped)
		return
	}
	defer m.inFlight.Store(false)

	result := m.check(context.Background())
	m.metrics.ObservePollCycle(result)
}

func (m *Monitor) clearDerivedState() {
	if err := m.store.SetUnreadCounts(map[string]int64{}); err != nil {
		m.log.WithError(err).Warn("Failed to clear unread counts")
	}
	if err := m.store.SetBadge(storemodels.Badge{}); err != nil {
		m.log.WithError(err).Warn("Failed to clear badge")
	}
	m.metrics.ObserveUnreadTotal(0)
}
