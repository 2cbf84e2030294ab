package observability

import (
	"time"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the transactions API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	deletionsTotal   prometheus.Counter
	predictionsTotal prometheus.Counter
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	datasetSize      *prometheus.GaugeVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txapi_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txapi_requests_total",
				Help: "Total HTTP requests processed, by outcome.",
			},
			[]string{"status"}, // success (2xx/3xx) or error (4xx/5xx)
		),
		deletionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "txapi_deletions_total",
				Help: "Total transactions soft-deleted.",
			},
		),
		predictionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "txapi_fraud_predictions_total",
				Help: "Total fraud predictions scored.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txapi_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txapi_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		datasetSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "txapi_dataset_size",
				Help: "Size of the loaded dataset by entity.",
			},
			[]string{"entity"}, // cards, transactions
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// IncrDeletion increments the soft-delete counter.
func (m *Metrics) IncrDeletion() {
	m.deletionsTotal.Inc()
}

// IncrPrediction increments the fraud prediction counter.
func (m *Metrics) IncrPrediction() {
	m.predictionsTotal.Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// SetDatasetSize records how many records of an entity are loaded.
func (m *Metrics) SetDatasetSize(entity string, n int) {
	m.datasetSize.WithLabelValues(entity).Set(float64(n))
}

// GetUsageSnapshot returns a snapshot of usage counters suitable for the
// GET /api/system/usage endpoint.
func (m *Metrics) GetUsageSnapshot() *domain.ServiceUsage {
	// Gather current values from Prometheus counters.
	// Note: Prometheus counters expose cumulative values.
	successCount := getCounterValue(m.requestsTotal, "success")
	errorCount := getCounterValue(m.requestsTotal, "error")
	totalRequests := successCount + errorCount
	scoreHits := getCounterValue(m.cacheHits, "score")
	scoreMisses := getCounterValue(m.cacheMisses, "score")

	errorRate := float64(0)
	hitRate := float64(0)

	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	if scoreHits+scoreMisses > 0 {
		hitRate = scoreHits / (scoreHits + scoreMisses)
	}

	return &domain.ServiceUsage{
		TotalRequests:     int64(totalRequests),
		ErrorRate:         errorRate,
		DeletionsTotal:    int64(counterValue(m.deletionsTotal)),
		PredictionsTotal:  int64(counterValue(m.predictionsTotal)),
		ScoreCacheHitRate: hitRate,
		Period:            "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	return counterValue(cv.WithLabelValues(label))
}

// counterValue extracts the current float64 value from a counter.
func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
