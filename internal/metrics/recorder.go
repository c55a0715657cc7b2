package metrics

import "time"

// Outcome is the final status of one run.
type Outcome string

const (
	OutcomeWritten   Outcome = "written"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeDrift     Outcome = "drift"
	OutcomeFailed    Outcome = "failed"
)

// Recorder receives run metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	SetEntries(n int)
	IncRunOutcome(mode string, outcome Outcome)
	SetDriftDetected(drifted bool)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) SetEntries(int)                             {}
func (NoopRecorder) IncRunOutcome(string, Outcome)              {}
func (NoopRecorder) SetDriftDetected(bool)                      {}
