package xdb

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional bundle of Prometheus instruments a Searcher
// reports query counts and I/O cost through. It is nil by default (see
// WithMetrics), so using the package never touches the default registry
// unless a caller explicitly opts in.
type Metrics struct {
	queries *prometheus.CounterVec
	ioCount prometheus.Histogram
}

// NewMetrics builds a Metrics bundle and registers it against reg. Passing
// prometheus.NewRegistry() keeps it isolated from the global default
// registry; passing prometheus.DefaultRegisterer wires it into the
// process-wide /metrics endpoint the way a long-running service would.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xdb",
			Name:      "queries_total",
			Help:      "Number of Search calls, by cache policy and result.",
		}, []string{"policy", "result"}),
		ioCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "xdb",
			Name:      "query_io_count",
			Help:      "Physical reads issued to the backing store per Search call.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
	}
	if err := reg.Register(m.queries); err != nil {
		return nil, err
	}
	if err := reg.Register(m.ioCount); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(policy Policy, result string, ioCount int64) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(policy.String(), result).Inc()
	m.ioCount.Observe(float64(ioCount))
}

const (
	resultHit  = "hit"
	resultMiss = "miss"
	resultErr  = "error"
)
