package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "grinder_console_"

	// ResultSuccess labels a completed call.
	ResultSuccess = "success"
	// ResultError labels a failed call.
	ResultError = "error"
)

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "api_requests_total",
			Help: "Remote API calls by operation and result",
		},
		[]string{"operation", "result"},
	)
	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "api_latency_seconds",
			Help:    "Remote API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	pollResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "poll_results_total",
			Help: "Synchronizer fetches by slice and result",
		},
		[]string{"slice", "result"},
	)
	alarmActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "alarm_actions_total",
			Help: "Alarm lifecycle mutations by action and result",
		},
		[]string{"action", "result"},
	)
	resetResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "reset_results_total",
			Help: "Reset commands by outcome",
		},
		[]string{"result"},
	)
	alarmCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: metricPrefix + "unacknowledged_alarms",
			Help: "Last known unacknowledged alarm count",
		},
	)
)

func register() {
	registerOnce.Do(func() {
		registry.MustRegister(
			apiRequests,
			apiLatency,
			pollResults,
			alarmActions,
			resetResults,
			alarmCount,
		)
	})
}

// Handler serves the console collectors in the Prometheus text format.
func Handler() http.Handler {
	register()

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}

	return ResultSuccess
}

// ObserveAPI records a remote API call.
func ObserveAPI(operation, result string, duration time.Duration) {
	register()
	apiRequests.WithLabelValues(operation, result).Inc()
	apiLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncPoll records one synchronizer fetch of a slice.
func IncPoll(slice, result string) {
	register()
	pollResults.WithLabelValues(slice, result).Inc()
}

// IncAlarmAction records one lifecycle mutation.
func IncAlarmAction(action, result string) {
	register()
	alarmActions.WithLabelValues(action, result).Inc()
}

// IncReset records a resolved reset command.
func IncReset(result string) {
	register()
	resetResults.WithLabelValues(result).Inc()
}

// SetAlarmCount publishes the count held by the synchronizer.
func SetAlarmCount(count int) {
	register()
	alarmCount.Set(float64(count))
}
