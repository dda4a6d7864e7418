package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricsNamespace     = "hiveswitch_companion"
	MetricsSubsystemApp  = "app"
	MetricsSubsystemHTTP = "http"
	MetricsSubsystemPoll = "poll"

	PollResultSuccess    = "success"
	PollResultAuthFailed = "auth_failed"
	PollResultError      = "error"
	PollResultSkipped    = "skipped_overlap"

	RecoveryStrategyCookie    = "cookie"
	RecoveryStrategyRefresh   = "refresh"
	RecoveryStrategyBootstrap = "bootstrap"

	RecoveryResultSuccess = "success"
	RecoveryResultFailure = "failure"

	NotificationKindSingle    = "single"
	NotificationKindAggregate = "aggregate"
)

// Metrics used to instrumentate metrics in prometheus.
type Metrics struct {
	registry *prometheus.Registry

	apiTime *prometheus.HistogramVec

	httpRequestsTotal prometheus.Counter
	httpErrorsTotal   prometheus.Counter

	pollCyclesTotal     *prometheus.CounterVec
	authRecoveriesTotal *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec

	unreadTotal            prometheus.Gauge
	goroutineFailuresTotal prometheus.Counter
}

// NewMetrics Factory method to create a new metrics collector.
func NewMetrics() *Metrics {
	m := &Metrics{}

	m.registry = prometheus.NewRegistry()
	options := collectors.ProcessCollectorOpts{
		Namespace: MetricsNamespace,
	}
	m.registry.MustRegister(collectors.NewProcessCollector(options))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.apiTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystemHTTP,
			Name:      "api_time",
			Help:      "Time to execute the api handler",
		},
		[]string{"handler", "method", "status_code"},
	)
	m.registry.MustRegister(m.apiTime)

	m.httpRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemHTTP,
		Name:      "requests_total",
		Help:      "The total number of http API requests.",
	})
	m.registry.MustRegister(m.httpRequestsTotal)

	m.httpErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemHTTP,
		Name:      "errors_total",
		Help:      "The total number of http API errors.",
	})
	m.registry.MustRegister(m.httpErrorsTotal)

	m.pollCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemPoll,
		Name:      "cycles_total",
		Help:      "The total number of poll cycles, by outcome.",
	}, []string{"result"})
	m.registry.MustRegister(m.pollCyclesTotal)

	m.authRecoveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemPoll,
		Name:      "auth_recoveries_total",
		Help:      "The total number of auth recovery attempts, by strategy and outcome.",
	}, []string{"strategy", "result"})
	m.registry.MustRegister(m.authRecoveriesTotal)

	m.notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemPoll,
		Name:      "notifications_total",
		Help:      "The total number of notification events raised, by kind.",
	}, []string{"kind"})
	m.registry.MustRegister(m.notificationsTotal)

	m.unreadTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemApp,
		Name:      "unread_total",
		Help:      "The total unread count across all channels as of the last poll.",
	})
	m.registry.MustRegister(m.unreadTotal)

	m.goroutineFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemApp,
		Name:      "goroutine_failures_total",
		Help:      "The total number of background goroutines recovered from a panic.",
	})
	m.registry.MustRegister(m.goroutineFailuresTotal)

	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPIEndpointDuration(handler, method, statusCode string, elapsed float64) {
	if m != nil {
		m.apiTime.With(prometheus.Labels{"handler": handler, "method": method, "status_code": statusCode}).Observe(elapsed)
	}
}

func (m *Metrics) IncrementHTTPRequests() {
	if m != nil {
		m.httpRequestsTotal.Inc()
	}
}

func (m *Metrics) IncrementHTTPErrors() {
	if m != nil {
		m.httpErrorsTotal.Inc()
	}
}

func (m *Metrics) ObservePollCycle(result string) {
	if m != nil {
		m.pollCyclesTotal.With(prometheus.Labels{"result": result}).Inc()
	}
}

func (m *Metrics) ObserveAuthRecovery(strategy, result string) {
	if m != nil {
		m.authRecoveriesTotal.With(prometheus.Labels{"strategy": strategy, "result": result}).Inc()
	}
}

func (m *Metrics) ObserveNotification(kind string) {
	if m != nil {
		m.notificationsTotal.With(prometheus.Labels{"kind": kind}).Inc()
	}
}

func (m *Metrics) ObserveUnreadTotal(count int64) {
	if m != nil {
		m.unreadTotal.Set(float64(count))
	}
}

func (m *Metrics) ObserveGoroutineFailure() {
	if m != nil {
		m.goroutineFailuresTotal.Inc()
	}
}
