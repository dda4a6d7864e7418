package hive

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Mana is a manabar value the chain serializes either as a JSON number or as
// a quoted decimal string once it outgrows 53 bits.
type Mana int64

func (m *Mana) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, convErr := strconv.ParseInt(s, 10, 64)
		if convErr != nil {
			return errors.Wrap(convErr, "failed to parse mana string")
		}
		*m = Mana(v)
		return nil
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "failed to parse mana value")
	}
	*m = Mana(v)
	return nil
}

// Account carries the subset of condenser_api.get_accounts used for the
// voting-power metric. VotingPower is basis points (0-10000) as of
// LastVoteTime; regeneration since then is derived locally.
type Account struct {
	Name         string `json:"name"`
	VotingPower  int    `json:"voting_power"`
	LastVoteTime string `json:"last_vote_time"`
}

type RCManabar struct {
	CurrentMana    Mana  `json:"current_mana"`
	LastUpdateTime int64 `json:"last_update_time"`
}

type RCAccount struct {
	Account   string    `json:"account"`
	RCManabar RCManabar `json:"rc_manabar"`
	MaxRC     Mana      `json:"max_rc"`
}
