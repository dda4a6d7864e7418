package store

// Persisted state keys. Each key maps to a whole JSON document; there are no
// partial updates, so concurrent readers never observe a half-written value.
const (
	KeySettings         = "settings"
	KeyChannels         = "channels"
	KeyChannelTotals    = "channelTotals"
	KeyChannelReadState = "channelReadState"
	KeyChannelActivity  = "channelState"
	KeyUnreadCounts     = "unreadCounts"
	KeyBadge            = "badge"
	KeyNotifications    = "notifications"
	KeySessionCookie    = "sessionCookie"
	KeyAuthFailed       = "authFailed"
)
