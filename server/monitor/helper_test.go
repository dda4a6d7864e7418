package monitor

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	clientMocks "github.com/hiveswitch/companion/server/chatproxy/mocks"
	hiveMocks "github.com/hiveswitch/companion/server/hive/mocks"
	"github.com/hiveswitch/companion/server/metrics"
	storeMocks "github.com/hiveswitch/companion/server/store/mocks"
)

// testNow is the frozen clock every monitor test runs under.
var testNow = time.UnixMilli(1700000000000)

type testMonitor struct {
	*Monitor
	store  *storeMocks.Store
	client *clientMocks.Client
	hive   *hiveMocks.Client
}

func newTestMonitor() *testMonitor {
	log := logrus.New()
	log.SetOutput(io.Discard)

	st := &storeMocks.Store{}
	client := &clientMocks.Client{}
	hiveClient := &hiveMocks.Client{}

	m := New(client, hiveClient, st, metrics.NewMetrics(), log)
	m.now = func() time.Time { return testNow }

	return &testMonitor{
		Monitor: m,
		store:   st,
		client:  client,
		hive:    hiveClient,
	}
}
