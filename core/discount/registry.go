package discount

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/kilianp07/promo/core/events"
	"github.com/kilianp07/promo/core/logger"
	"github.com/kilianp07/promo/core/metrics"
	"github.com/kilianp07/promo/internal/eventbus"
)

// Registry maps festival names to strategies. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy

	log        logger.Logger
	recorder   metrics.Recorder
	announcers []Announcer
	publisher  eventbus.Publisher[events.Execution]
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithRecorder sets the metrics recorder notified on every Execute.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Registry) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithAnnouncers appends announcers receiving every successful announcement.
func WithAnnouncers(as ...Announcer) Option {
	return func(r *Registry) {
		for _, a := range as {
			if a != nil {
				r.announcers = append(r.announcers, a)
			}
		}
	}
}

// WithPublisher publishes an events.Execution for every Execute call.
func WithPublisher(p eventbus.Publisher[events.Execution]) Option {
	return func(r *Registry) { r.publisher = p }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		strategies: make(map[string]Strategy),
		log:        logger.Nop{},
		recorder:   metrics.NopRecorder{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register associates festival with s. Registering an existing festival
// replaces its strategy.
func (r *Registry) Register(festival string, s Strategy) error {
	if s == nil {
		return fmt.Errorf("register %q: nil strategy", festival)
	}
	r.mu.Lock()
	_, replaced := r.strategies[festival]
	r.strategies[festival] = s
	size := len(r.strategies)
	r.mu.Unlock()

	if replaced {
		r.log.Debugf("strategy for %q replaced", festival)
	}
	if sr, ok := r.recorder.(metrics.SizeRecorder); ok {
		if err := sr.RecordRegistrySize(size); err != nil {
			r.log.Errorf("record registry size: %v", err)
		}
	}
	return nil
}

// Execute applies the strategy registered for festival and hands the result
// to the announcers. An unregistered festival yields a
// *NoActivePromotionError and nothing is announced. Announcer failures are
// returned together with the announcement.
func (r *Registry) Execute(festival string) (Announcement, error) {
	ev := events.NewExecution(festival)

	r.mu.RLock()
	s, ok := r.strategies[festival]
	r.mu.RUnlock()
	if !ok {
		err := &NoActivePromotionError{Festival: festival}
		ev.Err = err
		r.log.Warnw("no active promotion", map[string]any{"festival": festival, "execution_id": ev.ID})
		r.observe(ev)
		return Announcement{}, err
	}

	a := s.ApplyDiscount(festival)
	ev.Found = true
	ev.PricePercent = a.PricePercent
	ev.Text = a.Text

	var errs []error
	for _, an := range r.announcers {
		if err := an.Announce(a); err != nil {
			errs = append(errs, err)
		}
	}
	var err error
	if len(errs) > 0 {
		err = fmt.Errorf("announce %q: %w", festival, errors.Join(errs...))
		ev.Err = err
		r.log.Errorf("%v", err)
	}
	r.log.Debugw("promotion applied", map[string]any{
		"festival":      festival,
		"price_percent": a.PricePercent,
		"execution_id":  ev.ID,
	})
	r.observe(ev)
	return a, err
}

func (r *Registry) observe(ev events.Execution) {
	if err := r.recorder.RecordExecution(ev); err != nil {
		r.log.Errorf("record execution: %v", err)
	}
	if r.publisher != nil {
		r.publisher.Publish(ev)
	}
}

// Lookup returns the strategy registered for festival.
func (r *Registry) Lookup(festival string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[festival]
	return s, ok
}

// Festivals lists the registered festivals in sorted order.
func (r *Registry) Festivals() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.strategies))
	for f := range r.strategies {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered festivals.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies)
}

// Entry describes one registered festival.
type Entry struct {
	Festival string `json:"festival"`
	// PricePercent is zero when the strategy has no fixed fraction.
	PricePercent int `json:"price_percent"`
}

// Entries lists the registered festivals with their price fraction, sorted
// by festival.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.strategies))
	for f, s := range r.strategies {
		e := Entry{Festival: f}
		if p, ok := s.(Priced); ok {
			e.PricePercent = p.PricePercent()
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Festival < out[j].Festival })
	return out
}
