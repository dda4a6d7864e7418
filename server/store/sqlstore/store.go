package sqlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hiveswitch/companion/server/store"
	"github.com/hiveswitch/companion/server/store/storemodels"
)

const stateTableName = "companion_state"

// SQLStore persists session state in a local SQLite database, one JSON
// document per key.
type SQLStore struct {
	db  *sqlx.DB
	log logrus.FieldLogger

	// readMu serializes the read-modify-write cycles on read-state between
	// the monitor's persist step and API-driven mark-read calls.
	readMu sync.Mutex
}

func New(db *sqlx.DB, log logrus.FieldLogger) *SQLStore {
	return &SQLStore{
		db:  db,
		log: log,
	}
}

func (s *SQLStore) Init() error {
	if err := s.createTable(stateTableName, "name TEXT PRIMARY KEY, value BLOB NOT NULL"); err != nil {
		return err
	}
	return nil
}

func (s *SQLStore) createTable(tableName, columnList string) error {
	if _, err := s.db.Exec(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, columnList)); err != nil {
		return errors.Wrapf(err, "failed to create table %s", tableName)
	}
	return nil
}

func (s *SQLStore) getValue(key string, out any) (bool, error) {
	row := sq.Select("value").
		From(stateTableName).
		Where(sq.Eq{"name": key}).
		RunWith(s.db).
		QueryRow()

	var raw []byte
	if err := row.Scan(&raw); err == sql.ErrNoRows {
		return false, nil
	} else if err != nil {
		return false, errors.Wrapf(err, "failed to get value for %s", key)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrapf(err, "failed to unmarshal value for %s", key)
	}
	return true, nil
}

func (s *SQLStore) setValue(key string, in any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal value for %s", key)
	}

	_, err = sq.Insert(stateTableName).
		Columns("name", "value").
		Values(key, raw).
		Suffix("ON CONFLICT(name) DO UPDATE SET value = excluded.value").
		RunWith(s.db).
		Exec()
	if err != nil {
		return errors.Wrapf(err, "failed to set value for %s", key)
	}
	return nil
}

func (s *SQLStore) deleteValue(key string) error {
	_, err := sq.Delete(stateTableName).
		Where(sq.Eq{"name": key}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return errors.Wrapf(err, "failed to delete value for %s", key)
	}
	return nil
}

func (s *SQLStore) GetSettings() (storemodels.Settings, error) {
	var settings storemodels.Settings
	found, err := s.getValue(store.KeySettings, &settings)
	if err != nil {
		return storemodels.Settings{}, err
	}
	if !found {
		return storemodels.DefaultSettings(), nil
	}
	return settings, nil
}

func (s *SQLStore) SetSettings(settings storemodels.Settings) error {
	return s.setValue(store.KeySettings, settings)
}

func (s *SQLStore) GetChannels() ([]storemodels.Channel, error) {
	var channels []storemodels.Channel
	if _, err := s.getValue(store.KeyChannels, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (s *SQLStore) SetChannels(channels []storemodels.Channel) error {
	return s.setValue(store.KeyChannels, channels)
}

func (s *SQLStore) GetChannelTotals() (map[string]int64, error) {
	return s.getCounterMap(store.KeyChannelTotals)
}

func (s *SQLStore) SetChannelTotals(totals map[string]int64) error {
	return s.setValue(store.KeyChannelTotals, totals)
}

func (s *SQLStore) GetChannelReadState() (map[string]int64, error) {
	return s.getCounterMap(store.KeyChannelReadState)
}

// SetChannelReadState replaces the read-state map, except that a stored value
// higher than the incoming one wins per channel. A poll cycle that raced a
// mark-read can therefore never move read-state backwards; channels absent
// from the incoming map still drop out.
func (s *SQLStore) SetChannelReadState(readState map[string]int64) error {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	stored, err := s.getCounterMap(store.KeyChannelReadState)
	if err != nil {
		return err
	}
	for id, read := range readState {
		if stored[id] > read {
			readState[id] = stored[id]
		}
	}
	return s.setValue(store.KeyChannelReadState, readState)
}

// MarkChannelRead advances the channel's read-state to its current total.
// Read-state never regresses, so a stale caller can't resurrect unreads.
func (s *SQLStore) MarkChannelRead(channelID string) error {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	totals, err := s.GetChannelTotals()
	if err != nil {
		return err
	}
	readState, err := s.GetChannelReadState()
	if err != nil {
		return err
	}

	if totals[channelID] > readState[channelID] {
		readState[channelID] = totals[channelID]
	}
	// The lock is held and readState was loaded under it; write directly.
	if err = s.setValue(store.KeyChannelReadState, readState); err != nil {
		return err
	}

	counts, err := s.GetUnreadCounts()
	if err != nil {
		return err
	}
	if counts[channelID] != 0 {
		counts[channelID] = 0
		return s.SetUnreadCounts(counts)
	}
	return nil
}

func (s *SQLStore) GetChannelActivity() (map[string]int64, error) {
	return s.getCounterMap(store.KeyChannelActivity)
}

func (s *SQLStore) SetChannelActivity(activity map[string]int64) error {
	return s.setValue(store.KeyChannelActivity, activity)
}

func (s *SQLStore) GetUnreadCounts() (map[string]int64, error) {
	return s.getCounterMap(store.KeyUnreadCounts)
}

func (s *SQLStore) SetUnreadCounts(counts map[string]int64) error {
	return s.setValue(store.KeyUnreadCounts, counts)
}

func (s *SQLStore) getCounterMap(key string) (map[string]int64, error) {
	counters := map[string]int64{}
	if _, err := s.getValue(key, &counters); err != nil {
		return nil, err
	}
	return counters, nil
}

func (s *SQLStore) GetBadge() (storemodels.Badge, error) {
	var badge storemodels.Badge
	if _, err := s.getValue(store.KeyBadge, &badge); err != nil {
		return storemodels.Badge{}, err
	}
	return badge, nil
}

func (s *SQLStore) SetBadge(badge storemodels.Badge) error {
	return s.setValue(store.KeyBadge, badge)
}

func (s *SQLStore) ListNotifications() ([]storemodels.Notification, error) {
	var notifications []storemodels.Notification
	if _, err := s.getValue(store.KeyNotifications, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *SQLStore) AppendNotification(notification storemodels.Notification) error {
	notifications, err := s.ListNotifications()
	if err != nil {
		return err
	}
	return s.setValue(store.KeyNotifications, append(notifications, notification))
}

func (s *SQLStore) DeleteNotification(id string) error {
	notifications, err := s.ListNotifications()
	if err != nil {
		return err
	}

	remaining := notifications[:0]
	for _, n := range notifications {
		if n.ID != id {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == len(notifications) {
		return nil
	}
	return s.setValue(store.KeyNotifications, remaining)
}

func (s *SQLStore) GetSessionCookie() (string, error) {
	var cookie string
	if _, err := s.getValue(store.KeySessionCookie, &cookie); err != nil {
		return "", err
	}
	return cookie, nil
}

func (s *SQLStore) SetSessionCookie(cookie string) error {
	return s.setValue(store.KeySessionCookie, cookie)
}

func (s *SQLStore) GetAuthFailed() (bool, error) {
	var failed bool
	if _, err := s.getValue(store.KeyAuthFailed, &failed); err != nil {
		return false, err
	}
	return failed, nil
}

func (s *SQLStore) SetAuthFailed(failed bool) error {
	return s.setValue(store.KeyAuthFailed, failed)
}

// ClearSession wipes the auth bundle and every derived cache. Runtime
// preferences survive; only identity and chat state go away.
func (s *SQLStore) ClearSession() error {
	settings, err := s.GetSettings()
	if err != nil {
		return err
	}

	settings.Username = ""
	settings.AccessToken = ""
	settings.ChatToken = ""
	settings.UserID = ""
	settings.RefreshToken = ""
	if err = s.SetSettings(settings); err != nil {
		return err
	}

	for _, key := range []string{
		store.KeyChannels,
		store.KeyChannelTotals,
		store.KeyChannelReadState,
		store.KeyChannelActivity,
		store.KeyUnreadCounts,
		store.KeyBadge,
		store.KeyNotifications,
		store.KeySessionCookie,
		store.KeyAuthFailed,
	} {
		if err = s.deleteValue(key); err != nil {
			return err
		}
	}
	return nil
}
