package storemodels

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// ChatTokenCookieSession is stored in place of a bearer token when the
	// proxy session rides on the browser's ambient cookie instead.
	ChatTokenCookieSession = "cookie-session"

	// NeverTracked marks a channel whose activity has not been observed by
	// any previous poll. Such channels never notify on the cycle that first
	// discovers them.
	NeverTracked int64 = 0

	BadgeMetricRC = "RC"
	BadgeMetricVP = "VP"
)

const (
	ChannelTypeOpen    = "O"
	ChannelTypePrivate = "P"
	ChannelTypeDirect  = "D"
	ChannelTypeGroup   = "G"
)

// Settings is the user-facing runtime configuration plus the mutable auth
// bundle. It is mutated by the popup UI through the API and by the background
// loop on silent token refresh.
type Settings struct {
	NotificationsEnabled   bool   `json:"notificationsEnabled"`
	AutoRedirect           bool   `json:"autoRedirect"`
	OpenInNewTab           bool   `json:"openInNewTab"`
	NotificationInterval   int    `json:"notificationInterval"`
	BadgeMetric            string `json:"badgeMetric"`
	PreferMetricOverUnread bool   `json:"preferMetricOverUnread"`
	MetricAccount          string `json:"metricAccount"`

	Username     string `json:"username"`
	AccessToken  string `json:"accessToken"`
	ChatToken    string `json:"chatToken"`
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		AutoRedirect:         false,
		OpenInNewTab:         true,
		NotificationInterval: 1,
		BadgeMetric:          BadgeMetricVP,
	}
}

func (s *Settings) Validate() error {
	if s.NotificationInterval < 1 {
		return errors.New("notification interval must be at least one minute")
	}
	if s.BadgeMetric != BadgeMetricRC && s.BadgeMetric != BadgeMetricVP {
		return errors.New("badge metric must be RC or VP")
	}
	return nil
}

// HasSession reports whether any credential material exists to poll with.
func (s *Settings) HasSession() bool {
	return s.ChatToken != "" || s.RefreshToken != "" || (s.Username != "" && s.AccessToken != "")
}

// UsesCookieSession reports whether proxy calls must omit the bearer header
// and rely on the ambient session cookie.
func (s *Settings) UsesCookieSession() bool {
	return s.ChatToken == ChatTokenCookieSession
}

// Credentials is the result of a successful auth recovery.
type Credentials struct {
	ChatToken    string
	RefreshToken string
	UserID       string
}

// Channel mirrors the proxy's channel plus locally derived fields.
type Channel struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	LastPostAt  int64  `json:"last_post_at"`
	UnreadCount int64  `json:"unread_count"`
}

// OtherParticipant extracts the teammate's user id from a direct channel
// name, which the proxy encodes as "<id>__<id>".
func (c *Channel) OtherParticipant(selfID string) string {
	if c.Type != ChannelTypeDirect {
		return ""
	}
	for _, id := range strings.Split(c.Name, "__") {
		if id != "" && id != selfID {
			return id
		}
	}
	return ""
}

// Badge is the text/color pair rendered on the extension icon.
type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// Notification is one entry in the outbox the UI shim renders natively.
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	ChannelID string `json:"channelId,omitempty"`
	CreateAt  int64  `json:"create_at"`
}
