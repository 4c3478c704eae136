// Package metrics defines the recorder interfaces used to observe promotion
// lookups. Concrete recorders (Prometheus, InfluxDB) live in infra/metrics
// and register themselves with the factory helpers here; NewRecorder returns
// a MultiRecorder automatically when several sinks are configured.
package metrics
