package audit

import (
	"context"

	"github.com/kilianp07/promo/core/events"
	"github.com/kilianp07/promo/core/logger"
)

// Collect appends every execution received on sub to store until ctx is
// canceled or sub is closed.
func Collect(ctx context.Context, sub <-chan events.Execution, store Store, log logger.Logger) {
	if log == nil {
		log = logger.Nop{}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			if err := store.Append(ctx, FromExecution(ev)); err != nil {
				log.Errorf("audit append %s: %v", ev.ID, err)
			}
		}
	}
}
