package prediction

import (
	"log/slog"
	"time"

	"github.com/sartorproj/gotrend/forecast"
)

// State is a stage of a prediction run.
type State int

const (
	StateReceived State = iota
	StateValidated
	StateAggregated
	StateFitted
	StatePredicted
	StateDone
	StateFailed
)

var stateNames = [...]string{"received", "validated", "aggregated", "fitted", "predicted", "done", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Recorder observes prediction runs. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordOutcome(model forecast.ModelType, final State)
	RecordFitDuration(model forecast.ModelType, d time.Duration)
	RecordValidationFailure()
}

type nopRecorder struct{}

func (nopRecorder) RecordOutcome(forecast.ModelType, State) {}
func (nopRecorder) RecordFitDuration(forecast.ModelType, time.Duration) {}
func (nopRecorder) RecordValidationFailure() {}

// run tracks the state of one GeneratePredictions call. Stages advance
// strictly in order; any stage may fail.
type run struct {
	state    State
	model    forecast.ModelType
	logger   *slog.Logger
	recorder Recorder
}

func (r *run) advance(next State) {
	if r.state.Terminal() || next != r.state+1 {
		r.logger.Error("invalid state transition", "from", r.state.String(), "to", next.String())
		return
	}
	r.logger.Debug("state transition", "from", r.state.String(), "state", next.String())
	r.state = next
	if next == StateDone {
		r.recorder.RecordOutcome(r.model, next)
	}
}

func (r *run) fail(err error) error {
	r.logger.Warn("prediction failed", "state", r.state.String(), "error", err)
	r.state = StateFailed
	r.recorder.RecordOutcome(r.model, StateFailed)
	return err
}
