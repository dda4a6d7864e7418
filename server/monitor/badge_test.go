package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hiveswitch/companion/server/store/storemodels"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestRenderBadge(t *testing.T) {
	for _, testCase := range []struct {
		description string
		settings    storemodels.Settings
		unreadTotal int64
		metric      *float64
		authFailed  bool
		expected    storemodels.Badge
	}{
		{
			description: "unread count wins over metric by default",
			unreadTotal: 5,
			metric:      floatPtr(10),
			expected:    storemodels.Badge{Text: "5", Color: badgeColorChat},
		},
		{
			description: "metric override flips the precedence",
			settings:    storemodels.Settings{PreferMetricOverUnread: true},
			unreadTotal: 5,
			metric:      floatPtr(10),
			expected:    storemodels.Badge{Text: "10%", Color: badgeColorAlert},
		},
		{
			description: "unread still shows when override is set but no metric is available",
			settings:    storemodels.Settings{PreferMetricOverUnread: true},
			unreadTotal: 5,
			expected:    storemodels.Badge{Text: "5", Color: badgeColorChat},
		},
		{
			description: "unread display caps at 99+",
			unreadTotal: 240,
			expected:    storemodels.Badge{Text: "99+", Color: badgeColorChat},
		},
		{
			description: "auth failure shows the warning glyph when nothing is unread",
			authFailed:  true,
			expected:    storemodels.Badge{Text: "!", Color: badgeColorWarning},
		},
		{
			description: "unread count takes precedence over the auth warning",
			unreadTotal: 2,
			authFailed:  true,
			expected:    storemodels.Badge{Text: "2", Color: badgeColorChat},
		},
		{
			description: "caution tier between twenty and fifty percent",
			metric:      floatPtr(35),
			expected:    storemodels.Badge{Text: "35%", Color: badgeColorCaution},
		},
		{
			description: "healthy tier above fifty percent",
			metric:      floatPtr(82.4),
			expected:    storemodels.Badge{Text: "82%", Color: badgeColorHealthy},
		},
		{
			description: "alert tier below twenty percent",
			metric:      floatPtr(19.4),
			expected:    storemodels.Badge{Text: "19%", Color: badgeColorAlert},
		},
		{
			description: "nothing to show clears the badge",
			expected:    storemodels.Badge{},
		},
	} {
		t.Run(testCase.description, func(t *testing.T) {
			badge := renderBadge(testCase.settings, testCase.unreadTotal, testCase.metric, testCase.authFailed)
			assert.Equal(t, testCase.expected, badge)
		})
	}
}
