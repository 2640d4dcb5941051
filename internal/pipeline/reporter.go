package pipeline

import (
	"log/slog"
	"time"

	"factflow/internal/retry"
)

type EventKind string

const (
	EventState EventKind = "state"
	EventRetry EventKind = "retry"
)

type Event struct {
	Kind   EventKind
	RunID  string
	Claim  string
	State  State
	Time   time.Time
	Notice *retry.Notice
	// Err is set on the transition into StateFailed.
	Err error
}

// Reporter receives run progress. Implementations must be safe for use by
// concurrent runs.
type Reporter interface {
	Report(Event)
}

type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// LogReporter writes events to a structured logger.
type LogReporter struct {
	Log *slog.Logger
}

func (r LogReporter) Report(e Event) {
	switch e.Kind {
	case EventRetry:
		r.Log.Warn(e.Notice.String(), "run_id", e.RunID, "attempt", e.Notice.Attempt)
	default:
		if e.State == StateFailed {
			r.Log.Error("investigation failed", "run_id", e.RunID, "err", e.Err)
			return
		}
		r.Log.Info("investigation state", "run_id", e.RunID, "state", string(e.State))
	}
}
