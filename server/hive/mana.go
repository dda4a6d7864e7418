package hive

import (
	"time"
)

// Both voting power and resource credits fully regenerate in five days.
const fullRegenSeconds = 432000

const chainTimeLayout = "2006-01-02T15:04:05"

// VotingPowerPercent derives the account's current voting power percentage,
// applying linear regeneration since the last vote. Returns 0-100.
func VotingPowerPercent(account *Account, now time.Time) float64 {
	lastVote, err := time.Parse(chainTimeLayout, account.LastVoteTime)
	if err != nil {
		// Account has never voted; treat as fully regenerated.
		return 100
	}

	elapsed := now.UTC().Sub(lastVote).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	power := float64(account.VotingPower) + 10000*elapsed/fullRegenSeconds
	if power > 10000 {
		power = 10000
	}
	return power / 100
}

// ResourceCreditPercent derives the account's current resource credit
// percentage, applying linear regeneration since the manabar snapshot.
// Returns 0-100.
func ResourceCreditPercent(rc *RCAccount, now time.Time) float64 {
	if rc.MaxRC <= 0 {
		return 0
	}

	elapsed := float64(now.UTC().Unix() - rc.RCManabar.LastUpdateTime)
	if elapsed < 0 {
		elapsed = 0
	}

	current := float64(rc.RCManabar.CurrentMana) + float64(rc.MaxRC)*elapsed/fullRegenSeconds
	max := float64(rc.MaxRC)
	if current > max {
		current = max
	}
	return current / max * 100
}
