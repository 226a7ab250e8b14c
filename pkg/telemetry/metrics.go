// Package telemetry wires podium's render metrics and tracing.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "podium"

// RenderMetrics records renderer activity. A nil *RenderMetrics is valid and
// records nothing.
type RenderMetrics struct {
	tokens   *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewRenderMetrics creates the renderer collectors and registers them with
// reg. Passing nil skips registration, which is convenient in tests.
func NewRenderMetrics(reg prometheus.Registerer) (*RenderMetrics, error) {
	m := &RenderMetrics{
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_rendered_total",
			Help:      "Number of markdown tokens dispatched to a render handler.",
		}, []string{"kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Number of render calls that failed, by error code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Wall time of top-level render calls.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.tokens, m.errors, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// TokenRendered counts one dispatched token.
func (m *RenderMetrics) TokenRendered(kind string) {
	if m == nil {
		return
	}
	m.tokens.WithLabelValues(kind).Inc()
}

// RenderFailed counts one failed render call.
func (m *RenderMetrics) RenderFailed(code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(code).Inc()
}

// ObserveRender records the duration of a render call started at start.
func (m *RenderMetrics) ObserveRender(start time.Time) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
}
