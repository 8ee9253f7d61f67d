package httpx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/snmtc/parts-web/internal/router"
)

// Metrics counts navigation outcomes and debounced searches.
type Metrics struct {
	Navigations *prometheus.CounterVec
	Searches    *prometheus.CounterVec
}

// NewMetrics creates and registers the HTTP metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Navigations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "partsweb",
				Subsystem: "http",
				Name:      "navigations_total",
				Help:      "Page navigations by rendered route, terminal state and guard redirect",
			},
			[]string{"route", "state", "redirected"},
		),
		Searches: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "partsweb",
				Subsystem: "http",
				Name:      "searches_total",
				Help:      "Search box requests by box and outcome; error also counts toward fired",
			},
			[]string{"box", "outcome"},
		),
	}
}

func (m *Metrics) navigation(out router.Outcome) {
	if m == nil {
		return
	}
	route := out.Match.Route.Name
	if route == "" {
		route = "none"
	}
	redirected := "false"
	if out.Redirected {
		redirected = "true"
	}
	m.Navigations.WithLabelValues(route, out.State.String(), redirected).Inc()
}

func (m *Metrics) search(box, outcome string) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(box, outcome).Inc()
}
