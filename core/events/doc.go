// Package events defines the promotion events emitted on the event bus.
//
// Available event types:
//   - Execution: one festival lookup and its outcome
package events
