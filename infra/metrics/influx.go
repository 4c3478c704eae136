package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/promo/core/events"
	coremetrics "github.com/kilianp07/promo/core/metrics"
	"github.com/kilianp07/promo/infra/logger"
)

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxRecorder writes promotion executions to InfluxDB.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxRecorder creates a recorder for the given InfluxDB endpoint.
func NewInfluxRecorder(cfg InfluxConfig) *InfluxRecorder {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-recorder"),
	}
}

// NewInfluxRecorderWithFallback pings InfluxDB and returns a NopRecorder when
// the health check fails.
func NewInfluxRecorderWithFallback(cfg InfluxConfig) coremetrics.Recorder {
	rec := NewInfluxRecorder(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := rec.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			rec.log.Errorf("influx health check error: %v", err)
		} else {
			rec.log.Errorf("influx health status: %s", health.Status)
		}
		rec.client.Close()
		return coremetrics.NopRecorder{}
	}
	return rec
}

// RecordExecution writes one promotion_execution point.
func (r *InfluxRecorder) RecordExecution(ev events.Execution) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.writeAPI.WritePoint(ctx, executionPoint(ev))
}

// Close releases the underlying client.
func (r *InfluxRecorder) Close() error {
	r.client.Close()
	return nil
}

func executionPoint(ev events.Execution) *write.Point {
	return write.NewPointWithMeasurement("promotion_execution").
		AddTag("festival", ev.MetricFestival()).
		AddTag("outcome", ev.Outcome()).
		AddField("execution_id", ev.ID).
		AddField("price_percent", ev.PricePercent).
		SetTime(ev.Time)
}
