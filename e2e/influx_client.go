package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// influxReader queries the promotion_execution measurement written by the
// service.
type influxReader struct {
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

func newInfluxReader(url, org, bucket, token string) *influxReader {
	c := influxdb2.NewClient(url, token)
	return &influxReader{bucket: bucket, client: c, query: c.QueryAPI(org)}
}

// outcomes counts promotion_execution points per outcome tag over the last
// window minutes.
func (r *influxReader) outcomes(ctx context.Context, window int) (map[string]int, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start:-%dm)
  |> filter(fn:(r) => r._measurement == "promotion_execution" and r._field == "price_percent")`, r.bucket, window)
	res, err := r.query.Query(ctx, flux)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	counts := map[string]int{}
	for res.Next() {
		if outcome, ok := res.Record().ValueByKey("outcome").(string); ok {
			counts[outcome]++
		}
	}
	return counts, res.Err()
}

func (r *influxReader) Close() { r.client.Close() }
