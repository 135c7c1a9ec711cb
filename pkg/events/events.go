package events

import (
	"sync"
	"time"
)

// Kind discriminates the event types a batch run emits.
type Kind string

const (
	KindProgress Kind = "progress"
	KindLog      Kind = "log"
	KindDone     Kind = "done"
)

// Level is the severity of a log event.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Update is one event surfaced to the caller. Percent is set for progress
// events, Level/Message for log events, Total/OutputDir for the terminal
// completion event.
type Update struct {
	BatchID   string
	Kind      Kind
	Percent   int
	Level     Level
	Message   string
	Total     int
	OutputDir string
	Timestamp time.Time
}

// Progress builds a progress event.
func Progress(batchID string, percent int) Update {
	return Update{BatchID: batchID, Kind: KindProgress, Percent: percent, Timestamp: time.Now()}
}

// Log builds a log event.
func Log(batchID string, level Level, message string) Update {
	return Update{BatchID: batchID, Kind: KindLog, Level: level, Message: message, Timestamp: time.Now()}
}

// Done builds the terminal completion event.
func Done(batchID string, total int, outputDir string) Update {
	return Update{BatchID: batchID, Kind: KindDone, Total: total, OutputDir: outputDir, Timestamp: time.Now()}
}

// Reporter is the interface for event delivery. The core is agnostic to how
// a consumer renders events; a GUI would marshal them onto its UI thread.
type Reporter interface {
	Report(update Update)
}

// ChannelReporter sends updates to a channel
type ChannelReporter struct {
	ch chan<- Update
}

// NewChannelReporter creates a reporter that sends updates to ch
func NewChannelReporter(ch chan<- Update) *ChannelReporter {
	return &ChannelReporter{ch: ch}
}

func (r *ChannelReporter) Report(update Update) {
	select {
	case r.ch <- update:
	default: // non-blocking: drop if channel is full
	}
}

// MultiReporter fans out to multiple reporters
type MultiReporter struct {
	mu        sync.RWMutex
	reporters []Reporter
}

func NewMultiReporter(reporters ...Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

func (m *MultiReporter) Add(r Reporter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reporters = append(m.reporters, r)
}

func (m *MultiReporter) Report(update Update) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reporters {
		r.Report(update)
	}
}

// NoopReporter discards all updates
type NoopReporter struct{}

func (n NoopReporter) Report(_ Update) {}
