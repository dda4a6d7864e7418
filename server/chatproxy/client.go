package chatproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hiveswitch/companion/server/chatproxy/clientmodels"
)

const (
	sessionCookieName = "MMAUTHTOKEN"
	requestTimeout    = 30 * time.Second
)

// ClientImpl talks to the chat proxy's REST surface. All methods are thin
// I/O wrappers; the monitor owns every decision about what the responses
// mean.
type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

func NewClient(baseURL string, log logrus.FieldLogger) *ClientImpl {
	return &ClientImpl{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

func (c *ClientImpl) do(ctx context.Context, cred Credential, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "failed to build proxy request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	switch {
	case cred.Token != "":
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	case cred.Cookie != "":
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cred.Cookie})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "proxy request %s %s failed", method, path)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 400:
		return errors.Errorf("proxy request %s %s returned status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode proxy response for %s", path)
	}
	return nil
}

func (c *ClientImpl) GetChannels(ctx context.Context, cred Credential) ([]clientmodels.Channel, error) {
	var channels []clientmodels.Channel
	if err := c.do(ctx, cred, http.MethodGet, "/api/v4/users/me/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *ClientImpl) GetUnreads(ctx context.Context, cred Credential) (*clientmodels.Unreads, error) {
	var unreads clientmodels.Unreads
	if err := c.do(ctx, cred, http.MethodGet, "/api/v4/users/me/unreads", nil, &unreads); err != nil {
		return nil, err
	}
	return &unreads, nil
}

func (c *ClientImpl) GetPosts(ctx context.Context, cred Credential, channelID string, limit int) (*clientmodels.PostList, error) {
	var posts clientmodels.PostList
	path := fmt.Sprintf("/api/v4/channels/%s/posts?per_page=%d", url.PathEscape(channelID), limit)
	if err := c.do(ctx, cred, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return &posts, nil
}

func (c *ClientImpl) GetMe(ctx context.Context, cred Credential) (*clientmodels.User, error) {
	var user clientmodels.User
	if err := c.do(ctx, cred, http.MethodGet, "/api/v4/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *ClientImpl) GetUserByUsername(ctx context.Context, cred Credential, username string) (*clientmodels.User, error) {
	var user clientmodels.User
	path := "/api/v4/users/username/" + url.PathEscape(username)
	if err := c.do(ctx, cred, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// BootstrapSession exchanges the long-lived signed platform credential for a
// fresh proxy session.
func (c *ClientImpl) BootstrapSession(ctx context.Context, username, accessToken string) (*clientmodels.Session, error) {
	var session clientmodels.Session
	body := map[string]string{"username": username, "access_token": accessToken}
	if err := c.do(ctx, Credential{}, http.MethodPost, "/api/v4/auth/bootstrap", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *ClientImpl) RefreshSession(ctx context.Context, refreshToken string) (*clientmodels.Session, error) {
	var session clientmodels.Session
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, Credential{}, http.MethodPost, "/api/v4/auth/refresh", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *ClientImpl) SendMessage(ctx context.Context, cred Credential, channelID, rootID, message string) (*clientmodels.Post, error) {
	var post clientmodels.Post
	body := map[string]string{"channel_id": channelID, "root_id": rootID, "message": message}
	if err := c.do(ctx, cred, http.MethodPost, "/api/v4/posts", body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *ClientImpl) UpdateMessage(ctx context.Context, cred Credential, postID, message string) (*clientmodels.Post, error) {
	var post clientmodels.Post
	body := map[string]string{"message": message}
	path := "/api/v4/posts/" + url.PathEscape(postID)
	if err := c.do(ctx, cred, http.MethodPut, path, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *ClientImpl) DeleteMessage(ctx context.Context, cred Credential, postID string) error {
	path := "/api/v4/posts/" + url.PathEscape(postID)
	return c.do(ctx, cred, http.MethodDelete, path, nil, nil)
}

func (c *ClientImpl) ToggleReaction(ctx context.Context, cred Credential, postID, emojiName string) error {
	body := map[string]string{"emoji_name": emojiName}
	path := "/api/v4/posts/" + url.PathEscape(postID) + "/reactions/toggle"
	return c.do(ctx, cred, http.MethodPost, path, body, nil)
}
