package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for availability queries and
// schedule mutations.
type SchedulingMetrics struct {
	availabilityTotal   *prometheus.CounterVec
	availabilityLatency *prometheus.HistogramVec
	mutationTotal       *prometheus.CounterVec
	lockWait            prometheus.Histogram
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "availability",
			Name:      "queries_total",
			Help:      "Total availability queries by kind and outcome",
		}, []string{"kind", "status"}),
		availabilityLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scheduling",
			Subsystem: "availability",
			Name:      "query_latency_seconds",
			Help:      "Latency of availability resolution",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		mutationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "schedule",
			Name:      "mutations_total",
			Help:      "Total schedule mutations by operation and outcome",
		}, []string{"operation", "status"}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scheduling",
			Subsystem: "schedule",
			Name:      "lock_wait_seconds",
			Help:      "Time spent acquiring the per-doctor schedule lock",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.availabilityLatency, m.mutationTotal, m.lockWait)
	return m
}

func (m *SchedulingMetrics) ObserveAvailability(kind string, err error, seconds float64) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(kind, statusLabel(err)).Inc()
	m.availabilityLatency.WithLabelValues(kind).Observe(seconds)
}

func (m *SchedulingMetrics) ObserveMutation(operation string, err error) {
	if m == nil {
		return
	}
	m.mutationTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

func (m *SchedulingMetrics) ObserveLockWait(seconds float64) {
	if m == nil {
		return
	}
	m.lockWait.Observe(seconds)
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
