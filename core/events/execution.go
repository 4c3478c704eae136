package events

import (
	"time"

	"github.com/google/uuid"
)

// Outcome labels used by metrics and the audit log.
const (
	OutcomeApplied     = "applied"
	OutcomeNoPromotion = "no_promotion"
)

// UnregisteredFestival replaces the festival label of misses so that unknown
// names cannot create new metric series.
const UnregisteredFestival = "unregistered"

// Execution is published for every registry lookup, hit or miss.
type Execution struct {
	ID           string
	Festival     string
	PricePercent int
	Text         string
	Found        bool
	Err          error
	Time         time.Time
}

// NewExecution stamps a fresh execution for festival with a random ID.
func NewExecution(festival string) Execution {
	return Execution{
		ID:       uuid.NewString(),
		Festival: festival,
		Time:     time.Now().UTC(),
	}
}

// Outcome reports the label for the execution result.
func (e Execution) Outcome() string {
	if e.Found {
		return OutcomeApplied
	}
	return OutcomeNoPromotion
}

// MetricFestival returns the festival label for metrics: the festival on a
// hit, UnregisteredFestival on a miss.
func (e Execution) MetricFestival() string {
	if e.Found {
		return e.Festival
	}
	return UnregisteredFestival
}

// ErrString returns the error message or an empty string.
func (e Execution) ErrString() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
