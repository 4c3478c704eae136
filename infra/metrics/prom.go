package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/promo/core/events"
	coremetrics "github.com/kilianp07/promo/core/metrics"
)

// PromRecorder records promotion executions in Prometheus metrics.
type PromRecorder struct {
	executions *prometheus.CounterVec
	size       prometheus.Gauge
}

var _ coremetrics.SizeRecorder = (*PromRecorder)(nil)

// NewPromRecorder registers the promotion metrics on reg. A nil registerer
// defaults to the global Prometheus registerer. Metrics already registered by
// an earlier recorder are reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	executions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promotion_executions_total",
		Help: "Total number of promotion lookups by festival and outcome",
	}, []string{"festival", "outcome"})
	size := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "promotion_registered_festivals",
		Help: "Number of festivals with a registered discount strategy",
	})

	if err := reg.Register(executions); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		executions = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(size); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		size = are.ExistingCollector.(prometheus.Gauge)
	}
	return &PromRecorder{executions: executions, size: size}, nil
}

// RecordExecution increments the execution counter. Misses share the
// "unregistered" festival label.
func (r *PromRecorder) RecordExecution(ev events.Execution) error {
	r.executions.WithLabelValues(ev.MetricFestival(), ev.Outcome()).Inc()
	return nil
}

// RecordRegistrySize sets the registered festivals gauge.
func (r *PromRecorder) RecordRegistrySize(size int) error {
	r.size.Set(float64(size))
	return nil
}
