package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics records database query observations keyed by model and action.
type QueryMetrics struct {
	duration   *prometheus.HistogramVec
	slow       *prometheus.CounterVec
	nPlusOne   *prometheus.CounterVec
	inFlightTx prometheus.Gauge
}

// NewQueryMetrics registers the query metrics on the provided registerer.
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	if reg == nil {
		return &QueryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"model", "action"})
	slow := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "db_slow_queries_total",
		Help: "Queries exceeding the slow-query threshold.",
	}, []string{"model", "action"})
	nPlusOne := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "db_n_plus_one_suspects_total",
		Help: "Query bursts matching the N+1 heuristic.",
	}, []string{"model", "action"})
	inFlightTx := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "db_transactions_in_flight",
		Help: "Transactions currently open.",
	})
	reg.MustRegister(duration, slow, nPlusOne, inFlightTx)
	return &QueryMetrics{
		duration:   duration,
		slow:       slow,
		nPlusOne:   nPlusOne,
		inFlightTx: inFlightTx,
	}
}

// ObserveQuery records the duration for a model+action pair.
func (q *QueryMetrics) ObserveQuery(model, action string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(model), normalizeLabel(action)).Observe(duration.Seconds())
}

// IncSlow increments the slow-query counter for the pair.
func (q *QueryMetrics) IncSlow(model, action string) {
	if q == nil || q.slow == nil {
		return
	}
	q.slow.WithLabelValues(normalizeLabel(model), normalizeLabel(action)).Inc()
}

// IncNPlusOne increments the N+1 suspect counter for the pair.
func (q *QueryMetrics) IncNPlusOne(model, action string) {
	if q == nil || q.nPlusOne == nil {
		return
	}
	q.nPlusOne.WithLabelValues(normalizeLabel(model), normalizeLabel(action)).Inc()
}

// TxStarted marks a transaction as open.
func (q *QueryMetrics) TxStarted() {
	if q == nil || q.inFlightTx == nil {
		return
	}
	q.inFlightTx.Inc()
}

// TxFinished marks a transaction as closed.
func (q *QueryMetrics) TxFinished() {
	if q == nil || q.inFlightTx == nil {
		return
	}
	q.inFlightTx.Dec()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
