//go:generate mockery --name=Store
package store

import (
	"github.com/hiveswitch/companion/server/store/storemodels"
)

// Store is the persisted session state shared by the background monitor and
// the popup-facing API. Writes are whole-key replaces; callers must only
// persist fully computed values, never intermediate state.
type Store interface {
	Init() error

	GetSettings() (storemodels.Settings, error)
	SetSettings(settings storemodels.Settings) error

	GetChannels() ([]storemodels.Channel, error)
	SetChannels(channels []storemodels.Channel) error

	GetChannelTotals() (map[string]int64, error)
	SetChannelTotals(totals map[string]int64) error

	GetChannelReadState() (map[string]int64, error)
	SetChannelReadState(readState map[string]int64) error
	MarkChannelRead(channelID string) error

	GetChannelActivity() (map[string]int64, error)
	SetChannelActivity(activity map[string]int64) error

	GetUnreadCounts() (map[string]int64, error)
	SetUnreadCounts(counts map[string]int64) error

	GetBadge() (storemodels.Badge, error)
	SetBadge(badge storemodels.Badge) error

	ListNotifications() ([]storemodels.Notification, error)
	AppendNotification(notification storemodels.Notification) error
	DeleteNotification(id string) error

	GetSessionCookie() (string, error)
	SetSessionCookie(cookie string) error

	GetAuthFailed() (bool, error)
	SetAuthFailed(failed bool) error

	ClearSession() error
}
