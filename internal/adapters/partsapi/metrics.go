package partsapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	apperrors "github.com/snmtc/parts-web/internal/errors"
)

// Metrics records upstream call latency.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the client metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "partsweb",
				Subsystem: "partsapi",
				Name:      "request_duration_seconds",
				Help:      "Parts API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"resource", "op", "outcome"},
		),
	}
}

func (m *Metrics) observe(resource, op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(resource, op, outcome(err)).Observe(time.Since(started).Seconds())
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}
