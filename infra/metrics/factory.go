package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/promo/core/factory"
	coremetrics "github.com/kilianp07/promo/core/metrics"
)

// init registers the recorders backed by external systems.
func init() {
	coremetrics.MustRegisterRecorder("prometheus", func(map[string]any) (coremetrics.Recorder, error) {
		return NewPromRecorder(prometheus.DefaultRegisterer)
	})

	coremetrics.MustRegisterRecorder("influx", func(conf map[string]any) (coremetrics.Recorder, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxRecorderWithFallback(c), nil
	})
}
