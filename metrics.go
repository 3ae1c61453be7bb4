package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Render modes as reported in metrics.
const (
	modeReference = "reference"
	modeInline    = "inline"
	modeStatus    = "status"
)

// metrics groups the client collectors. A nil *metrics records nothing.
type metrics struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "go_render",
			Name:      "requests_total",
			Help:      "Remote render calls by format, mode and outcome.",
		}, []string{"format", "mode", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "go_render",
			Name:      "request_duration_seconds",
			Help:      "Remote render call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format", "mode"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "go_render",
			Name:      "cache_lookups_total",
			Help:      "Render cache lookups by format and result.",
		}, []string{"format", "result"}),
	}

	var err error
	if m.renders, err = register(reg, m.renders); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.cache, err = register(reg, m.cache); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector registered by
// another client.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("%w: %v", ErrMetrics, err)
	}
	return c, nil
}

func (m *metrics) observe(format Format, mode string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	var rerr *RenderError
	switch {
	case errors.As(err, &rerr):
		outcome = "remote_error"
	case err != nil:
		outcome = "error"
	}
	m.renders.WithLabelValues(string(format), mode, outcome).Inc()
	m.duration.WithLabelValues(string(format), mode).Observe(time.Since(start).Seconds())
}

func (m *metrics) lookup(format Format, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(string(format), result).Inc()
}
