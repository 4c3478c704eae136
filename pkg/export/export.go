package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/promo/core/audit"
)

// WriteJSON writes the audit records to w as a JSON array.
func WriteJSON(w io.Writer, records []audit.Record) error {
	if records == nil {
		records = []audit.Record{}
	}
	return json.NewEncoder(w).Encode(records)
}

// WriteCSV writes the audit records to w in CSV format with a header row.
func WriteCSV(w io.Writer, records []audit.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "timestamp", "festival", "outcome", "price_percent", "text", "error"}); err != nil {
		return err
	}
	for _, r := range records {
		price := ""
		if r.PricePercent > 0 {
			price = strconv.Itoa(r.PricePercent)
		}
		rec := []string{
			r.ID,
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			r.Festival,
			r.Outcome,
			price,
			r.Text,
			r.Error,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
