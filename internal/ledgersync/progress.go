package ledgersync

import "github.com/rs/zerolog"

// Stage identifies where in a sync run a progress event was emitted.
type Stage string

const (
	StageSelect   Stage = "select"
	StagePayload  Stage = "payload"
	StageSubmit   Stage = "submit"
	StageClassify Stage = "classify"
	StagePersist  Stage = "persist"
)

// ProgressEvent is one observable step of a run. Runs report progress through
// an injected sink and return a Result value; there is no shared mutable run
// state for concurrent callers to trip over.
type ProgressEvent struct {
	RunID   string
	Stage   Stage
	OrderID string
	Status  Status
	Message string
}

// StatusSink receives progress events during a run.
type StatusSink interface {
	OnProgress(ev ProgressEvent)
}

// NopSink discards progress events.
type NopSink struct{}

func (NopSink) OnProgress(ProgressEvent) {}

// LogSink forwards progress events to a structured logger.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) OnProgress(ev ProgressEvent) {
	s.Log.Info().
		Str("run_id", ev.RunID).
		Str("stage", string(ev.Stage)).
		Str("order_id", ev.OrderID).
		Str("status", string(ev.Status)).
		Msg(ev.Message)
}
