// Package workflow drives the review stages for a document: extract the
// canonical artifacts, collect feedback, approve, then analyze. The engine
// core stays pure; this package owns the stage machine and the contract
// with the backend collaborators.
package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for stage transitions.
var (
	ErrBusy            = errors.New("a backend call is already in flight")
	ErrWrongStage      = errors.New("operation not valid in current stage")
	ErrNothingToSubmit = errors.New("no annotations or message to submit")
)

// Stage identifies the current step of the review workflow.
type Stage int

const (
	StageExtract Stage = iota
	StageFeedback
	StageApprove
	StageAnalyze
	StageDone
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageExtract:
		return "extract"
	case StageFeedback:
		return "feedback"
	case StageApprove:
		return "approve"
	case StageAnalyze:
		return "analyze"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// ParseStage converts a stored stage name back to a Stage.
func ParseStage(name string) (Stage, error) {
	switch name {
	case "extract":
		return StageExtract, nil
	case "feedback":
		return StageFeedback, nil
	case "approve":
		return StageApprove, nil
	case "analyze":
		return StageAnalyze, nil
	case "done":
		return StageDone, nil
	default:
		return StageExtract, fmt.Errorf("unknown workflow stage %q", name)
	}
}

// Machine is a minimal single-threaded stage machine. External calls are
// not cancellable, so a second call attempted while one is in flight is
// rejected rather than queued.
type Machine struct {
	stage    Stage
	inFlight bool
}

// NewMachine returns a machine at the extract stage.
func NewMachine() *Machine {
	return &Machine{stage: StageExtract}
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage {
	return m.stage
}

// InFlight reports whether a backend call is currently outstanding.
func (m *Machine) InFlight() bool {
	return m.inFlight
}

// Begin marks a backend call as in flight for the given stage. It fails if
// the machine is in a different stage or a call is already outstanding.
func (m *Machine) Begin(stage Stage) error {
	if m.inFlight {
		return ErrBusy
	}
	if m.stage != stage {
		return fmt.Errorf("%w: in %s, attempted %s", ErrWrongStage, m.stage, stage)
	}
	m.inFlight = true
	return nil
}

// Fail ends the in-flight call without advancing; local state is untouched
// and the operation is user-retriable.
func (m *Machine) Fail() {
	m.inFlight = false
}

// Complete ends the in-flight call and advances to the next stage.
func (m *Machine) Complete() {
	m.inFlight = false
	switch m.stage {
	case StageExtract:
		m.stage = StageFeedback
	case StageFeedback:
		m.stage = StageApprove
	case StageApprove:
		m.stage = StageAnalyze
	case StageAnalyze:
		m.stage = StageDone
	case StageDone:
		// terminal
	}
}

// Approve advances feedback -> approve locally; approval itself needs no
// backend call when there is nothing to submit.
func (m *Machine) Approve() error {
	if m.inFlight {
		return ErrBusy
	}
	if m.stage != StageFeedback {
		return fmt.Errorf("%w: in %s, attempted approve", ErrWrongStage, m.stage)
	}
	m.stage = StageApprove
	return nil
}
