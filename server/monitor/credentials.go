package monitor

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hiveswitch/companion/server/chatproxy"
	"github.com/hiveswitch/companion/server/metrics"
	"github.com/hiveswitch/companion/server/store/storemodels"
)

// errRecoveryExhausted is returned once every recovery strategy has failed.
var errRecoveryExhausted = errors.New("all session recovery strategies failed")

// recoverCredentials runs the ordered recovery chain after the proxy rejected
// the current session: browser cookie first, then the refresh token, then a
// full bootstrap with the long-lived access token. The first strategy that
// yields a working credential wins; the refreshed bundle is persisted before
// returning so every subsequent call this cycle uses it.
//
// The cookie is tried first even when a refresh token exists: a live browser
// session is the cheapest signal the user is still logged in.
func (m *Monitor) recoverCredentials(ctx context.Context, settings storemodels.Settings) (*storemodels.Credentials, error) {
	strategies := []struct {
		name string
		run  func(context.Context, storemodels.Settings) (*storemodels.Credentials, error)
	}{
		{metrics.RecoveryStrategyCookie, m.recoverFromCookie},
		{metrics.RecoveryStrategyRefresh, m.recoverFromRefreshToken},
		{metrics.RecoveryStrategyBootstrap, m.recoverFromBootstrap},
	}

	for _, strategy := range strategies {
		creds, err := strategy.run(ctx, settings)
		if err != nil {
			m.metrics.ObserveAuthRecovery(strategy.name, metrics.RecoveryResultFailure)
			m.log.WithError(err).WithField("strategy", strategy.name).Debug("Session recovery strategy failed")
			continue
		}

		m.metrics.ObserveAuthRecovery(strategy.name, metrics.RecoveryResultSuccess)
		m.log.WithField("strategy", strategy.name).Info("Session recovered")

		if err = m.persistCredentials(settings, creds); err != nil {
			return nil, err
		}
		return creds, nil
	}

	m.log.Warn("Session recovery exhausted, surfacing auth failure on badge")
	return nil, errRecoveryExhausted
}

// recoverFromCookie checks whether the browser still holds a live proxy
// session cookie (the extension shim pushes it down whenever it changes). A
// trial channel fetch validates it before it is adopted.
func (m *Monitor) recoverFromCookie(ctx context.Context, _ storemodels.Settings) (*storemodels.Credentials, error) {
	cookie, err := m.store.GetSessionCookie()
	if err != nil {
		return nil, err
	}
	if cookie == "" {
		return nil, errors.New("no browser session cookie available")
	}

	cred := chatproxy.CookieCredential(cookie)
	if _, err = m.client.GetChannels(ctx, cred); err != nil {
		return nil, errors.Wrap(err, "trial fetch with session cookie failed")
	}

	me, err := m.client.GetMe(ctx, cred)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve identity from cookie session")
	}

	return &storemodels.Credentials{
		ChatToken: storemodels.ChatTokenCookieSession,
		UserID:    me.ID,
	}, nil
}

func (m *Monitor) recoverFromRefreshToken(ctx context.Context, settings storemodels.Settings) (*storemodels.Credentials, error) {
	if settings.RefreshToken == "" {
		return nil, errors.New("no refresh token stored")
	}

	session, err := m.client.RefreshSession(ctx, settings.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "refresh token exchange failed")
	}

	creds := &storemodels.Credentials{
		ChatToken:    session.Token,
		RefreshToken: session.RefreshToken,
		UserID:       session.UserID,
	}
	if creds.UserID == "" {
		me, meErr := m.client.GetMe(ctx, chatproxy.BearerCredential(session.Token))
		if meErr != nil {
			return nil, errors.Wrap(meErr, "failed to resolve identity after refresh")
		}
		creds.UserID = me.ID
	}
	return creds, nil
}

func (m *Monitor) recoverFromBootstrap(ctx context.Context, settings storemodels.Settings) (*storemodels.Credentials, error) {
	if settings.Username == "" || settings.AccessToken == "" {
		return nil, errors.New("no access token stored")
	}

	session, err := m.client.BootstrapSession(ctx, settings.Username, settings.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "session bootstrap failed")
	}

	creds := &storemodels.Credentials{
		ChatToken:    session.Token,
		RefreshToken: session.RefreshToken,
		UserID:       session.UserID,
	}
	if creds.UserID == "" {
		creds.UserID = m.resolveIdentity(ctx, chatproxy.BearerCredential(session.Token), settings.Username)
	}
	if creds.UserID == "" {
		return nil, errors.New("bootstrap succeeded but identity could not be resolved")
	}
	return creds, nil
}

// resolveIdentity asks the proxy who the session belongs to, falling back to
// a username lookup when the whoami endpoint misbehaves.
func (m *Monitor) resolveIdentity(ctx context.Context, cred chatproxy.Credential, username string) string {
	if me, err := m.client.GetMe(ctx, cred); err == nil {
		return me.ID
	}

	user, err := m.client.GetUserByUsername(ctx, cred, username)
	if err != nil {
		m.log.WithError(err).Debug("Failed to resolve identity by username")
		return ""
	}
	return user.ID
}

// persistCredentials writes the refreshed bundle back to settings. This must
// land before any further proxy call in the cycle; a crash between recovery
// and persistence would otherwise repeat the whole chain next cycle.
func (m *Monitor) persistCredentials(settings storemodels.Settings, creds *storemodels.Credentials) error {
	settings.ChatToken = creds.ChatToken
	if creds.RefreshToken != "" {
		settings.RefreshToken = creds.RefreshToken
	}
	if creds.UserID != "" {
		settings.UserID = creds.UserID
	}
	return m.store.SetSettings(settings)
}
