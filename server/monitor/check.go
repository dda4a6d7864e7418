package monitor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hiveswitch/companion/server/chatproxy"
	"github.com/hiveswitch/companion/server/chatproxy/clientmodels"
	"github.com/hiveswitch/companion/server/hive"
	"github.com/hiveswitch/companion/server/metrics"
	"github.com/hiveswitch/companion/server/store/storemodels"
)

// tokenRefreshWindow is how close to its exp claim a session token may get
// before a cycle refreshes it without waiting for a rejection.
const tokenRefreshWindow = 2 * time.Minute

// remoteState is one consistent snapshot of the proxy's view.
type remoteState struct {
	channels []clientmodels.Channel
	totals   map[string]int64
}

// check runs one pipeline pass and returns the metrics result label. No step
// failure is fatal: errors are logged, the store is always left with fully
// computed values only.
func (m *Monitor) check(ctx context.Context) string {
	settings, err := m.store.GetSettings()
	if err != nil {
		m.log.WithError(err).Error("Failed to load settings")
		return metrics.PollResultError
	}

	// Manual polls (mark-read, settings changes) funnel through here too;
	// with notifications off the derived state was already cleared and must
	// stay that way.
	if !settings.NotificationsEnabled {
		m.log.Debug("Notifications disabled, skipping poll cycle")
		return metrics.PollResultSuccess
	}

	if !settings.HasSession() {
		m.log.Debug("No session configured, skipping poll cycle")
		return metrics.PollResultSuccess
	}

	cred, err := m.credential(settings)
	if err != nil {
		m.log.WithError(err).Error("Failed to resolve request credential")
		return metrics.PollResultError
	}

	// Refresh a token that is about to lapse before it starts bouncing,
	// saving the wasted 401 round trip. A failed refresh is not fatal; the
	// rejection path below runs the same chain again.
	if chatproxy.TokenNearExpiry(settings.ChatToken, tokenRefreshWindow) {
		m.log.Debug("Session token near expiry, refreshing proactively")
		if creds, recErr := m.recoverCredentials(ctx, settings); recErr != nil {
			m.log.WithError(recErr).Debug("Proactive session refresh failed, continuing with current token")
		} else if settings, err = m.store.GetSettings(); err != nil {
			m.log.WithError(err).Error("Failed to reload settings after refresh")
			return metrics.PollResultError
		} else {
			cred = m.credentialFor(creds)
		}
	}

	state, err := m.fetchRemoteState(ctx, cred)
	if errors.Is(err, chatproxy.ErrUnauthorized) {
		creds, recErr := m.recoverCredentials(ctx, settings)
		if recErr != nil {
			m.recordAuthFailure(settings)
			return metrics.PollResultAuthFailed
		}

		// recoverCredentials already persisted the new bundle; reload it
		// so the rest of the cycle (and self-message checks) see it.
		settings, err = m.store.GetSettings()
		if err != nil {
			m.log.WithError(err).Error("Failed to reload settings after recovery")
			return metrics.PollResultError
		}

		cred = m.credentialFor(creds)
		state, err = m.fetchRemoteState(ctx, cred)
	}
	if err != nil {
		m.log.WithError(err).Warn("Failed to fetch remote channel state")
		if errors.Is(err, chatproxy.ErrUnauthorized) {
			m.recordAuthFailure(settings)
			return metrics.PollResultAuthFailed
		}
		return metrics.PollResultError
	}

	if err = m.store.SetAuthFailed(false); err != nil {
		m.log.WithError(err).Warn("Failed to clear auth failure flag")
	}

	readState, err := m.store.GetChannelReadState()
	if err != nil {
		m.log.WithError(err).Error("Failed to load read-state")
		return metrics.PollResultError
	}

	result := reconcileUnreads(state.channels, state.totals, readState)

	// A mark-read may have landed while we reconciled; fold the stored
	// read-state back in so this cycle can't resurrect those unreads.
	if stored, storedErr := m.store.GetChannelReadState(); storedErr == nil {
		result.mergeReadState(stored)
	}
	channels := annotateChannels(state.channels, result.UnreadByChannel)

	// Persist the reconciled snapshot before notification decisioning so a
	// failure there can't leave counts and read-state out of step.
	m.persistReconciled(channels, result)

	prevActivity, err := m.store.GetChannelActivity()
	if err != nil {
		m.log.WithError(err).Warn("Failed to load activity-state, skipping notifications this cycle")
		prevActivity = nil
	} else {
		m.evaluateNotifications(ctx, cred, settings, channels, prevActivity)
	}

	activity := advanceActivity(prevActivity, channels)
	if err = m.store.SetChannelActivity(activity); err != nil {
		m.log.WithError(err).Warn("Failed to persist activity-state")
	}

	m.updateBadge(ctx, settings, result.TotalUnread, false)
	m.metrics.ObserveUnreadTotal(result.TotalUnread)

	m.log.WithFields(logrus.Fields{
		"channels":     len(channels),
		"total_unread": result.TotalUnread,
	}).Debug("Poll cycle complete")
	return metrics.PollResultSuccess
}

// credential builds the request credential for the current settings,
// resolving the ambient cookie when the bundle carries the cookie-session
// sentinel.
func (m *Monitor) credential(settings storemodels.Settings) (chatproxy.Credential, error) {
	if !settings.UsesCookieSession() {
		return chatproxy.BearerCredential(settings.ChatToken), nil
	}

	cookie, err := m.store.GetSessionCookie()
	if err != nil {
		return chatproxy.Credential{}, err
	}
	return chatproxy.CookieCredential(cookie), nil
}

func (m *Monitor) credentialFor(creds *storemodels.Credentials) chatproxy.Credential {
	if creds.ChatToken == storemodels.ChatTokenCookieSession {
		cookie, err := m.store.GetSessionCookie()
		if err != nil {
			m.log.WithError(err).Warn("Failed to read session cookie after recovery")
		}
		return chatproxy.CookieCredential(cookie)
	}
	return chatproxy.BearerCredential(creds.ChatToken)
}

func (m *Monitor) fetchRemoteState(ctx context.Context, cred chatproxy.Credential) (*remoteState, error) {
	channels, err := m.client.GetChannels(ctx, cred)
	if err != nil {
		return nil, err
	}

	unreads, err := m.client.GetUnreads(ctx, cred)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(unreads.Channels))
	for _, u := range unreads.Channels {
		totals[u.ChannelID] = u.MessageCount
	}
	return &remoteState{channels: channels, totals: totals}, nil
}

func annotateChannels(channels []clientmodels.Channel, unreadByChannel map[string]int64) []storemodels.Channel {
	annotated := make([]storemodels.Channel, 0, len(channels))
	for _, ch := range channels {
		annotated = append(annotated, storemodels.Channel{
			ID:          ch.ID,
			Type:        ch.Type,
			DisplayName: ch.DisplayName,
			Name:        ch.Name,
			LastPostAt:  ch.LastPostAt,
			UnreadCount: unreadByChannel[ch.ID],
		})
	}
	return annotated
}

func (m *Monitor) persistReconciled(channels []storemodels.Channel, result reconcileResult) {
	if err := m.store.SetChannels(channels); err != nil {
		m.log.WithError(err).Warn("Failed to persist channels")
	}
	if err := m.store.SetChannelTotals(result.Totals); err != nil {
		m.log.WithError(err).Warn("Failed to persist channel totals")
	}
	if err := m.store.SetChannelReadState(result.ReadState); err != nil {
		m.log.WithError(err).Warn("Failed to persist read-state")
	}
	if err := m.store.SetUnreadCounts(result.UnreadByChannel); err != nil {
		m.log.WithError(err).Warn("Failed to persist unread counts")
	}
}

// recordAuthFailure surfaces a definitive auth failure through the badge.
// Polling continues on schedule; the state self-heals once valid credentials
// show up again.
func (m *Monitor) recordAuthFailure(settings storemodels.Settings) {
	if err := m.store.SetAuthFailed(true); err != nil {
		m.log.WithError(err).Warn("Failed to persist auth failure flag")
	}

	unreadTotal := m.storedUnreadTotal()
	m.updateBadge(context.Background(), settings, unreadTotal, true)
}

func (m *Monitor) storedUnreadTotal() int64 {
	counts, err := m.store.GetUnreadCounts()
	if err != nil {
		return 0
	}
	var total int64
	for _, c := range counts {
		total += c
	}
	return total
}

func (m *Monitor) updateBadge(ctx context.Context, settings storemodels.Settings, unreadTotal int64, authFailed bool) {
	var metric *float64
	if settings.MetricAccount != "" {
		if pct, err := m.metricPercent(ctx, settings); err != nil {
			m.log.WithError(err).WithField("account", settings.MetricAccount).Warn("Failed to fetch account metric")
		} else {
			metric = &pct
		}
	}

	badge := renderBadge(settings, unreadTotal, metric, authFailed)
	if err := m.store.SetBadge(badge); err != nil {
		m.log.WithError(err).Warn("Failed to persist badge")
	}
}

func (m *Monitor) metricPercent(ctx context.Context, settings storemodels.Settings) (float64, error) {
	switch settings.BadgeMetric {
	case storemodels.BadgeMetricRC:
		rc, err := m.hive.GetRCAccount(ctx, settings.MetricAccount)
		if err != nil {
			return 0, err
		}
		return hive.ResourceCreditPercent(rc, m.now()), nil
	default:
		account, err := m.hive.GetAccount(ctx, settings.MetricAccount)
		if err != nil {
			return 0, err
		}
		return hive.VotingPowerPercent(account, m.now()), nil
	}
}
