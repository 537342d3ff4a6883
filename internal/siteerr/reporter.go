package siteerr

import (
	"log/slog"
	"sync"
)

// Reporter receives non-fatal warnings.
type Reporter interface {
	Warn(w *Warning)
}

// LogReporter logs every warning at Warn level.
type LogReporter struct {
	Logger *slog.Logger
}

// Warn implements Reporter.
func (r LogReporter) Warn(w *Warning) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(w.Kind.Error(),
		slog.String("value", w.Value),
		slog.String("file", w.File))
}

// Collector keeps warnings in memory. It is safe for concurrent use.
type Collector struct {
	mu       sync.Mutex
	warnings []*Warning
}

// Warn implements Reporter.
func (c *Collector) Warn(w *Warning) {
	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
}

// Warnings returns a copy of the collected warnings.
func (c *Collector) Warnings() []*Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Count returns the number of warnings of the given kind.
func (c *Collector) Count(kind error) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all collected warnings.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.warnings = nil
	c.mu.Unlock()
}

type multi []Reporter

func (m multi) Warn(w *Warning) {
	for _, r := range m {
		r.Warn(w)
	}
}

// Multi fans warnings out to every reporter.
func Multi(reporters ...Reporter) Reporter {
	return multi(reporters)
}
