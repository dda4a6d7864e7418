package monitor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hiveswitch/companion/server/chatproxy"
	"github.com/hiveswitch/companion/server/chatproxy/clientmodels"
	"github.com/hiveswitch/companion/server/metrics"
	"github.com/hiveswitch/companion/server/store/storemodels"
)

type notificationCandidate struct {
	channel storemodels.Channel
	post    *clientmodels.Post
	users   map[string]clientmodels.User
}

// evaluateNotifications selects the channels worth telling the user about and
// raises at most one notification event for the whole cycle.
//
// A candidate needs genuinely new activity since the previous poll, a
// positive unread count, and must not be a first observation: channels with
// no prior activity marker only set their baseline this cycle.
func (m *Monitor) evaluateNotifications(ctx context.Context, cred chatproxy.Credential, settings storemodels.Settings, channels []storemodels.Channel, prevActivity map[string]int64) {
	var candidates []notificationCandidate
	for _, channel := range channels {
		prev, tracked := prevActivity[channel.ID]
		if !tracked || prev == storemodels.NeverTracked {
			continue
		}
		if channel.LastPostAt <= prev || channel.UnreadCount <= 0 {
			continue
		}

		posts, err := m.client.GetPosts(ctx, cred, channel.ID, latestPostLimit)
		if err != nil {
			// Fail open: a missed notification is worse than a rare
			// spurious one.
			m.log.WithError(err).WithField("channel_id", channel.ID).Debug("Failed to inspect latest post, notifying anyway")
			candidates = append(candidates, notificationCandidate{channel: channel})
			continue
		}

		var latest *clientmodels.Post
		if len(posts.Messages) > 0 {
			latest = &posts.Messages[0]
		}
		if latest != nil && latest.UserID == settings.UserID {
			// Own messages never notify.
			continue
		}

		candidates = append(candidates, notificationCandidate{channel: channel, post: latest, users: posts.Users})
	}

	if len(candidates) == 0 {
		return
	}
	m.publishNotification(settings, candidates)
}

func (m *Monitor) publishNotification(settings storemodels.Settings, candidates []notificationCandidate) {
	notification := storemodels.Notification{
		ID:       uuid.NewString(),
		CreateAt: m.now().UnixMilli(),
	}

	if len(candidates) == 1 {
		candidate := candidates[0]
		sender := senderName(candidate, settings.UserID)
		notification.ChannelID = candidate.channel.ID
		notification.Title = fmt.Sprintf("New message from %s", sender)
		notification.Body = fmt.Sprintf("%s posted in %s", sender, channelLabel(candidate.channel))
		m.metrics.ObserveNotification(metrics.NotificationKindSingle)
	} else {
		notification.Title = "New chat activity"
		notification.Body = fmt.Sprintf("%d conversations have new messages", len(candidates))
		m.metrics.ObserveNotification(metrics.NotificationKindAggregate)
	}

	if err := m.store.AppendNotification(notification); err != nil {
		m.log.WithError(err).Warn("Failed to enqueue notification")
	}
}

// senderName resolves who to blame for the activity: the post author's
// display name, then the direct-channel teammate, then a bare username.
func senderName(candidate notificationCandidate, selfID string) string {
	if candidate.post != nil {
		if user, ok := candidate.users[candidate.post.UserID]; ok {
			if user.DisplayName != "" {
				return user.DisplayName
			}
			if user.Username != "" {
				return user.Username
			}
		}
	}

	if other := candidate.channel.OtherParticipant(selfID); other != "" {
		if user, ok := candidate.users[other]; ok {
			if user.DisplayName != "" {
				return user.DisplayName
			}
			if user.Username != "" {
				return user.Username
			}
		}
	}

	return "someone"
}

func channelLabel(channel storemodels.Channel) string {
	if channel.DisplayName != "" {
		return channel.DisplayName
	}
	if channel.Type == storemodels.ChannelTypeDirect {
		return "a direct message"
	}
	return channel.Name
}
