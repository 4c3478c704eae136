// Package audit persists a trail of promotion executions.
package audit

import (
	"context"
	"time"

	"github.com/kilianp07/promo/core/events"
)

// Record captures one promotion execution.
type Record struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Festival     string    `json:"festival"`
	PricePercent int       `json:"price_percent,omitempty"`
	Text         string    `json:"text,omitempty"`
	Outcome      string    `json:"outcome"`
	Error        string    `json:"error,omitempty"`
}

// FromExecution converts a bus event into a record.
func FromExecution(ev events.Execution) Record {
	return Record{
		ID:           ev.ID,
		Timestamp:    ev.Time,
		Festival:     ev.Festival,
		PricePercent: ev.PricePercent,
		Text:         ev.Text,
		Outcome:      ev.Outcome(),
		Error:        ev.ErrString(),
	}
}

// Query defines filters for retrieving records. Zero values match anything.
type Query struct {
	Start    time.Time
	End      time.Time
	Festival string
	Outcome  string
}

func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Festival != "" && r.Festival != q.Festival {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	return true
}

// Store persists records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
