package metrics

import "github.com/kilianp07/promo/core/events"

// Recorder records promotion executions for observability purposes.
type Recorder interface {
	RecordExecution(ev events.Execution) error
}

// SizeRecorder is implemented by recorders able to track how many festivals
// are registered.
type SizeRecorder interface {
	RecordRegistrySize(size int) error
}

// NopRecorder implements Recorder with no-op methods.
type NopRecorder struct{}

func (NopRecorder) RecordExecution(events.Execution) error { return nil }
func (NopRecorder) RecordRegistrySize(int) error           { return nil }

// MultiRecorder fans records out to several recorders.
type MultiRecorder struct {
	Recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder with the provided recorders.
func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	return &MultiRecorder{Recorders: recs}
}

// RecordExecution forwards the event to all recorders, returning the first
// error encountered.
func (m *MultiRecorder) RecordExecution(ev events.Execution) error {
	for _, r := range m.Recorders {
		if err := r.RecordExecution(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRegistrySize forwards the size to recorders that support it.
func (m *MultiRecorder) RecordRegistrySize(size int) error {
	for _, r := range m.Recorders {
		if sr, ok := r.(SizeRecorder); ok {
			if err := sr.RecordRegistrySize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
