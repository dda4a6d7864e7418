package monitor

import (
	"fmt"
	"math"

	"github.com/hiveswitch/companion/server/store/storemodels"
)

const (
	badgeColorChat    = "#145DBF"
	badgeColorWarning = "#CC8F00"
	badgeColorAlert   = "#D24B4E"
	badgeColorCaution = "#F2A93B"
	badgeColorHealthy = "#3DB887"

	badgeMaxUnread = 99
)

// renderBadge computes the icon overlay. Chat unreads win over the account
// metric unless the user flipped the precedence preference; a definitive auth
// failure shows a warning glyph; otherwise the configured metric renders with
// a three-tier color ramp; failing all that the badge is cleared.
func renderBadge(settings storemodels.Settings, unreadTotal int64, metric *float64, authFailed bool) storemodels.Badge {
	showUnread := unreadTotal > 0 && !(settings.PreferMetricOverUnread && metric != nil)
	if showUnread {
		text := fmt.Sprintf("%d", unreadTotal)
		if unreadTotal > badgeMaxUnread {
			text = fmt.Sprintf("%d+", badgeMaxUnread)
		}
		return storemodels.Badge{Text: text, Color: badgeColorChat}
	}

	if authFailed {
		return storemodels.Badge{Text: "!", Color: badgeColorWarning}
	}

	if metric != nil {
		return storemodels.Badge{
			Text:  fmt.Sprintf("%d%%", int(math.Round(*metric))),
			Color: metricColor(*metric),
		}
	}

	return storemodels.Badge{}
}

func metricColor(pct float64) string {
	switch {
	case pct < 20:
		return badgeColorAlert
	case pct <= 50:
		return badgeColorCaution
	default:
		return badgeColorHealthy
	}
}
