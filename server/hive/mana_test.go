package hive

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVotingPowerPercent(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, testCase := range []struct {
		description string
		account     Account
		expected    float64
	}{
		{
			description: "no regeneration right after a vote",
			account:     Account{VotingPower: 8000, LastVoteTime: "2024-03-10T12:00:00"},
			expected:    80,
		},
		{
			description: "half a day regenerates ten percent",
			account:     Account{VotingPower: 8000, LastVoteTime: "2024-03-10T00:00:00"},
			expected:    90,
		},
		{
			description: "regeneration caps at one hundred percent",
			account:     Account{VotingPower: 9900, LastVoteTime: "2024-03-09T12:00:00"},
			expected:    100,
		},
		{
			description: "account that never voted is fully charged",
			account:     Account{VotingPower: 0, LastVoteTime: "1970-01-01T00:00:00"},
			expected:    100,
		},
		{
			description: "unparseable vote time is treated as fully charged",
			account:     Account{VotingPower: 4000, LastVoteTime: ""},
			expected:    100,
		},
	} {
		t.Run(testCase.description, func(t *testing.T) {
			assert.InDelta(t, testCase.expected, VotingPowerPercent(&testCase.account, now), 0.01)
		})
	}
}

func TestResourceCreditPercent(t *testing.T) {
	now := time.Unix(1700000000, 0)

	for _, testCase := range []struct {
		description string
		rc          RCAccount
		expected    float64
	}{
		{
			description: "no regeneration right after the snapshot",
			rc: RCAccount{
				MaxRC:     1000,
				RCManabar: RCManabar{CurrentMana: 500, LastUpdateTime: now.Unix()},
			},
			expected: 50,
		},
		{
			description: "half a day regenerates ten percent of max",
			rc: RCAccount{
				MaxRC:     1000,
				RCManabar: RCManabar{CurrentMana: 500, LastUpdateTime: now.Unix() - 43200},
			},
			expected: 60,
		},
		{
			description: "regeneration caps at max",
			rc: RCAccount{
				MaxRC:     1000,
				RCManabar: RCManabar{CurrentMana: 990, LastUpdateTime: now.Unix() - 86400},
			},
			expected: 100,
		},
		{
			description: "zero max never divides by zero",
			rc:          RCAccount{},
			expected:    0,
		},
	} {
		t.Run(testCase.description, func(t *testing.T) {
			assert.InDelta(t, testCase.expected, ResourceCreditPercent(&testCase.rc, now), 0.01)
		})
	}
}

func TestManaUnmarshal(t *testing.T) {
	var rc RCAccount
	raw := `{"account":"alice","rc_manabar":{"current_mana":"123456789012345","last_update_time":1700000000},"max_rc":987654321}`
	require.NoError(t, json.Unmarshal([]byte(raw), &rc))

	assert.Equal(t, Mana(123456789012345), rc.RCManabar.CurrentMana)
	assert.Equal(t, Mana(987654321), rc.MaxRC)

	var bad RCAccount
	assert.Error(t, json.Unmarshal([]byte(`{"max_rc":"not-a-number"}`), &bad))
}
