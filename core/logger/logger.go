package logger

// Logger is the logging surface shared by the promotion packages. The
// structured variants take a flat field map so adapters stay trivial.
type Logger interface {
	Debugf(format string, args ...any)
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Warnw(msg string, fields map[string]any)
	Errorf(format string, args ...any)
}

// Nop discards every log line.
type Nop struct{}

func (Nop) Debugf(string, ...any)         {}
func (Nop) Debugw(string, map[string]any) {}
func (Nop) Infof(string, ...any)          {}
func (Nop) Warnf(string, ...any)          {}
func (Nop) Warnw(string, map[string]any)  {}
func (Nop) Errorf(string, ...any)         {}
