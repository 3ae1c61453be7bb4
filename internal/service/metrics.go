package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	render "github.com/alnah/go-render"
)

// metrics groups the service collectors. A nil *metrics records nothing.
type metrics struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "render_service",
			Name:      "renders_total",
			Help:      "Render calls by format, delivery and outcome.",
		}, []string{"format", "delivery", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "render_service",
			Name:      "render_duration_seconds",
			Help:      "Render latency including cache lookups.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"format"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "render_service",
			Name:      "cache_lookups_total",
			Help:      "Render cache lookups by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{m.renders, m.duration, m.cache} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(format render.Format, fetch bool, start time.Time, err error) {
	if m == nil {
		return
	}
	delivery := "reference"
	if fetch {
		delivery = "inline"
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.renders.WithLabelValues(string(format), delivery, outcome).Inc()
	m.duration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
}

func (m *metrics) lookup(cached, hit bool) {
	if m == nil || !cached {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}
