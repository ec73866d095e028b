package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Prometheus struct {
	factory         promauto.Factory
	httpDuration    *prometheus.HistogramVec
	filterRequests  *prometheus.CounterVec
	filterResults   *prometheus.HistogramVec
	exports         *prometheus.CounterVec
	adviceRequests  *prometheus.CounterVec
	adviceLatency   *prometheus.HistogramVec
	liveConnections prometheus.Gauge
}

// NewPrometheus registers the collectors with registerer, or the default
// registerer when nil.
func NewPrometheus(registerer prometheus.Registerer) *Prometheus {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Prometheus{
		factory: factory,
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "testerhub_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "pattern", "status"},
		),
		filterRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testerhub_filter_requests_total",
				Help: "Total number of filter evaluations",
			},
			[]string{"surface"},
		),
		filterResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "testerhub_filter_results",
				Help:    "Number of tools matched per filter evaluation",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
			[]string{"surface"},
		),
		exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testerhub_exports_total",
				Help: "Total number of result set exports",
			},
			[]string{"format"},
		),
		adviceRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testerhub_advice_requests_total",
				Help: "Total number of agent advice requests by outcome",
			},
			[]string{"provider", "outcome"},
		),
		adviceLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "testerhub_advice_latency_seconds",
				Help:    "Latency of agent advice generation in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),
		liveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "testerhub_live_connections",
				Help: "Current number of live filter WebSocket connections",
			},
		),
	}
}

func (p *Prometheus) ObserveHTTP(method, pattern string, status int, duration time.Duration) {
	p.httpDuration.WithLabelValues(method, pattern, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (p *Prometheus) ObserveFilter(surface string, results int) {
	p.filterRequests.WithLabelValues(surface).Inc()
	p.filterResults.WithLabelValues(surface).Observe(float64(results))
}

func (p *Prometheus) ObserveExport(format string, _ int) {
	p.exports.WithLabelValues(format).Inc()
}

func (p *Prometheus) ObserveAdvice(provider, outcome string, duration time.Duration) {
	p.adviceRequests.WithLabelValues(provider, outcome).Inc()
	if outcome == AdviceOK || outcome == AdviceEmpty {
		p.adviceLatency.WithLabelValues(provider).Observe(duration.Seconds())
	}
}

func (p *Prometheus) AddLiveConnections(delta int) {
	p.liveConnections.Add(float64(delta))
}

// TrackSessions exports the value of count as the comparison session gauge.
// Call it at most once per registry.
func (p *Prometheus) TrackSessions(count func() int) {
	p.factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "testerhub_compare_sessions",
			Help: "Current number of comparison sessions",
		},
		func() float64 { return float64(count()) },
	)
}

var _ Metrics = (*Prometheus)(nil)
