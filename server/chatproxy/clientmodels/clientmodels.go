package clientmodels

// Channel is a conversation as returned by the proxy's channel listing. The
// listing alone carries no unread information; totals come from the unreads
// endpoint.
type Channel struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	LastPostAt  int64  `json:"last_post_at"`
}

// ChannelUnread is the authoritative cumulative message count for a channel.
type ChannelUnread struct {
	ChannelID    string `json:"channel_id"`
	MessageCount int64  `json:"msg_count"`
}

type Unreads struct {
	Channels []ChannelUnread `json:"channels"`
}

type Post struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	CreateAt  int64  `json:"create_at"`
}

// PostList carries posts newest-first along with the users referenced by them.
type PostList struct {
	Messages []Post          `json:"messages"`
	Users    map[string]User `json:"users"`
}

type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
}

// Session is the result of a bootstrap or refresh exchange. UserID and
// RefreshToken are optional; the proxy omits them on some code paths.
type Session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}
