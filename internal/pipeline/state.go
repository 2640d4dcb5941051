package pipeline

import "fmt"

type State string

const (
	StateIdle         State = "idle"
	StateFetching     State = "fetching"
	StateSynthesizing State = "synthesizing"
	StateSummarizing  State = "summarizing"
	StateExporting    State = "exporting"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Stages lists the working states in execution order.
var Stages = []State{StateFetching, StateSynthesizing, StateSummarizing, StateExporting}

var next = map[State]State{
	StateIdle:         StateFetching,
	StateFetching:     StateSynthesizing,
	StateSynthesizing: StateSummarizing,
	StateSummarizing:  StateExporting,
	StateExporting:    StateDone,
}

func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether the run may move from one state to another.
// Runs only advance one stage at a time; any non-terminal state may fail.
func CanTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	return next[from] == to
}

// StageError records the stage a run failed in. Err is the failure exactly as
// the stage returned it.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
