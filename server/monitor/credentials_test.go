package monitor

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hiveswitch/companion/server/chatproxy"
	"github.com/hiveswitch/companion/server/chatproxy/clientmodels"
	"github.com/hiveswitch/companion/server/store/storemodels"
)

func TestRecoverCredentialsCookieFirst(t *testing.T) {
	m := newTestMonitor()
	settings := storemodels.Settings{
		Username:     "alice",
		AccessToken:  "signed-access-token",
		RefreshToken: "refresh-token",
	}

	cookieCred := chatproxy.CookieCredential("live-cookie")
	m.store.On("GetSessionCookie").Return("live-cookie", nil)
	m.client.On("GetChannels", mock.Anything, cookieCred).Return([]clientmodels.Channel{}, nil)
	m.client.On("GetMe", mock.Anything, cookieCred).Return(&clientmodels.User{ID: "user-1", Username: "alice"}, nil)
	m.store.On("SetSettings", mock.MatchedBy(func(s storemodels.Settings) bool {
		return s.ChatToken == storemodels.ChatTokenCookieSession && s.UserID == "user-1"
	})).Return(nil)

	creds, err := m.recoverCredentials(context.Background(), settings)
	require.NoError(t, err)

	assert.Equal(t, storemodels.ChatTokenCookieSession, creds.ChatToken)
	assert.Equal(t, "user-1", creds.UserID)

	// The cookie path won, so the other strategies never ran.
	m.client.AssertNotCalled(t, "RefreshSession", mock.Anything, mock.Anything)
	m.client.AssertNotCalled(t, "BootstrapSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecoverCredentialsRefreshToken(t *testing.T) {
	m := newTestMonitor()
	settings := storemodels.Settings{
		Username:     "alice",
		AccessToken:  "signed-access-token",
		RefreshToken: "refresh-token",
	}

	m.store.On("GetSessionCookie").Return("", nil)
	m.client.On("RefreshSession", mock.Anything, "refresh-token").
		Return(&clientmodels.Session{Token: "new-token", RefreshToken: "new-refresh", UserID: "user-1"}, nil)
	m.store.On("SetSettings", mock.MatchedBy(func(s storemodels.Settings) bool {
		return s.ChatToken == "new-token" && s.RefreshToken == "new-refresh" && s.UserID == "user-1"
	})).Return(nil)

	creds, err := m.recoverCredentials(context.Background(), settings)
	require.NoError(t, err)

	assert.Equal(t, "new-token", creds.ChatToken)
	m.client.AssertNotCalled(t, "BootstrapSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecoverCredentialsRefreshResolvesIdentity(t *testing.T) {
	m := newTestMonitor()
	settings := storemodels.Settings{RefreshToken: "refresh-token"}

	m.store.On("GetSessionCookie").Return("", nil)
	m.client.On("RefreshSession", mock.Anything, "refresh-token").
		Return(&clientmodels.Session{Token: "new-token"}, nil)
	m.client.On("GetMe", mock.Anything, chatproxy.BearerCredential("new-token")).
		Return(&clientmodels.User{ID: "user-9"}, nil)
	m.store.On("SetSettings", mock.Anything).Return(nil)

	creds, err := m.recoverCredentials(context.Background(), settings)
	require.NoError(t, err)

	assert.Equal(t, "user-9", creds.UserID)
}

func TestRecoverCredentialsBootstrapFallsBackToUsernameLookup(t *testing.T) {
	m := newTestMonitor()
	settings := storemodels.Settings{
		Username:    "alice",
		AccessToken: "signed-access-token",
	}

	m.store.On("GetSessionCookie").Return("", nil)
	m.client.On("BootstrapSession", mock.Anything, "alice", "signed-access-token").
		Return(&clientmodels.Session{Token: "boot-token"}, nil)
	m.client.On("GetMe", mock.Anything, chatproxy.BearerCredential("boot-token")).
		Return(nil, errors.New("whoami unavailable"))
	m.client.On("GetUserByUsername", mock.Anything, chatproxy.BearerCredential("boot-token"), "alice").
		Return(&clientmodels.User{ID: "user-7", Username: "alice"}, nil)
	m.store.On("SetSettings", mock.MatchedBy(func(s storemodels.Settings) bool {
		return s.ChatToken == "boot-token" && s.UserID == "user-7"
	})).Return(nil)

	creds, err := m.recoverCredentials(context.Background(), settings)
	require.NoError(t, err)

	assert.Equal(t, "user-7", creds.UserID)
}

func TestRecoverCredentialsStaleCookieFallsThrough(t *testing.T) {
	m := newTestMonitor()
	settings := storemodels.Settings{RefreshToken: "refresh-token"}

	m.store.On("GetSessionCookie").Return("stale-cookie", nil)
	m.client.On("GetChannels", mock.Anything, chatproxy.CookieCredential("stale-cookie")).
		Return(nil, chatproxy.ErrUnauthorized)
	m.client.On("RefreshSession", mock.Anything, "refresh-token").
		Return(&clientmodels.Session{Token: "new-token", UserID: "user-1"}, nil)
	m.store.On("SetSettings", mock.Anything).Return(nil)

	creds, err := m.recoverCredentials(context.Background(), settings)
	require.NoError(t, err)

	assert.Equal(t, "new-token", creds.ChatToken)
}

func TestRecoverCredentialsExhausted(t *testing.T) {
	m := newTestMonitor()
	settings := storemodels.Settings{
		Username:     "alice",
		AccessToken:  "signed-access-token",
		RefreshToken: "refresh-token",
	}

	m.store.On("GetSessionCookie").Return("", nil)
	m.client.On("RefreshSession", mock.Anything, "refresh-token").
		Return(nil, chatproxy.ErrUnauthorized)
	m.client.On("BootstrapSession", mock.Anything, "alice", "signed-access-token").
		Return(nil, chatproxy.ErrUnauthorized)

	creds, err := m.recoverCredentials(context.Background(), settings)
	assert.Nil(t, creds)
	assert.ErrorIs(t, err, errRecoveryExhausted)

	m.store.AssertNotCalled(t, "SetSettings", mock.Anything)
}
