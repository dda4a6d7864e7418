//go:generate mockery --name=Client
package chatproxy

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hiveswitch/companion/server/chatproxy/clientmodels"
)

// ErrUnauthorized is returned when the proxy rejects the presented
// credential. It is the only error the recovery chain reacts to; everything
// else is transport noise and is retried on the next cycle.
var ErrUnauthorized = errors.New("chat proxy rejected the session credential")

// Credential selects how a request authenticates: a bearer session token, or
// the browser's ambient session cookie.
type Credential struct {
	Token  string
	Cookie string
}

func BearerCredential(token string) Credential {
	return Credential{Token: token}
}

func CookieCredential(cookie string) Credential {
	return Credential{Cookie: cookie}
}

type Client interface {
	GetChannels(ctx context.Context, cred Credential) ([]clientmodels.Channel, error)
	GetUnreads(ctx context.Context, cred Credential) (*clientmodels.Unreads, error)
	GetPosts(ctx context.Context, cred Credential, channelID string, limit int) (*clientmodels.PostList, error)
	GetMe(ctx context.Context, cred Credential) (*clientmodels.User, error)
	GetUserByUsername(ctx context.Context, cred Credential, username string) (*clientmodels.User, error)
	BootstrapSession(ctx context.Context, username, accessToken string) (*clientmodels.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*clientmodels.Session, error)
	SendMessage(ctx context.Context, cred Credential, channelID, rootID, message string) (*clientmodels.Post, error)
	UpdateMessage(ctx context.Context, cred Credential, postID, message string) (*clientmodels.Post, error)
	DeleteMessage(ctx context.Context, cred Credential, postID string) error
	ToggleReaction(ctx context.Context, cred Credential, postID, emojiName string) error
}
