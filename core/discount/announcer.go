package discount

import (
	"fmt"
	"io"
	"sync"
)

// Announcer emits announcements produced by Execute.
type Announcer interface {
	Announce(a Announcement) error
}

// AnnouncerFunc adapts a function to the Announcer interface.
type AnnouncerFunc func(Announcement) error

// Announce calls f.
func (f AnnouncerFunc) Announce(a Announcement) error { return f(a) }

// WriterAnnouncer prints the announcement text, one line per announcement.
type WriterAnnouncer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterAnnouncer returns an announcer writing to w.
func NewWriterAnnouncer(w io.Writer) *WriterAnnouncer {
	return &WriterAnnouncer{w: w}
}

// Announce writes a.Text followed by a newline.
func (wa *WriterAnnouncer) Announce(a Announcement) error {
	wa.mu.Lock()
	defer wa.mu.Unlock()
	_, err := fmt.Fprintln(wa.w, a.Text)
	return err
}
