package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hiveswitch/companion/server/chatproxy"
	"github.com/hiveswitch/companion/server/hive"
	"github.com/hiveswitch/companion/server/metrics"
	"github.com/hiveswitch/companion/server/monitor"
	"github.com/hiveswitch/companion/server/recovery"
	"github.com/hiveswitch/companion/server/store"
	"github.com/hiveswitch/companion/server/store/sqlstore"
)

// App wires the store, proxy client, monitor and HTTP API together and owns
// their lifecycle.
type App struct {
	cfg     *Config
	log     *logrus.Logger
	store   store.Store
	client  chatproxy.Client
	hive    hive.Client
	metrics *metrics.Metrics
	monitor *monitor.Monitor

	httpServer *http.Server
	quitting   atomic.Bool
}

func NewApp(cfg *Config) (*App, error) {
	log := newLogger(cfg)

	db, err := sqlstore.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		log:     log,
		metrics: metrics.NewMetrics(),
	}

	app.store = sqlstore.New(db, log.WithField("component", "store"))
	app.client = chatproxy.NewClient(cfg.ChatProxy.BaseURL, log.WithField("component", "chatproxy"))
	app.hive = hive.NewClient(cfg.Hive.APIURL, log.WithField("component", "hive"))
	app.monitor = monitor.New(app.client, app.hive, app.store, app.metrics, log)

	return app, nil
}

func newLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// Start initializes the store, arms the monitor per the persisted settings
// and brings up the HTTP API. It returns once everything is running.
func (a *App) Start() error {
	if err := a.store.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize store")
	}

	if err := a.monitor.Start(); err != nil {
		return errors.Wrap(err, "failed to start monitor")
	}

	api := NewAPI(a, a.store)
	addr := net.JoinHostPort(a.cfg.Listen.BindIP, a.cfg.Listen.Port)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	recovery.GoWorker("http_server", a.log, a.metrics, a.quitting.Load, func() {
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.WithError(err).Error("HTTP server stopped")
		}
	})

	a.log.WithField("addr", addr).Info("Companion started")
	return nil
}

// TriggerPoll runs a poll cycle outside the timer, e.g. right after the user
// read a channel. The monitor's overlap guard serializes it against an
// in-flight cycle.
func (a *App) TriggerPoll() {
	recovery.Go("manual_poll", a.log, a.metrics, a.monitor.RunPollCycle)
}

// Shutdown stops the monitor and drains the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	a.quitting.Store(true)
	a.monitor.Quit()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			return errors.Wrap(err, "failed to shut down http server")
		}
	}

	a.log.Info("Companion stopped")
	return nil
}
