package codegen

import "fmt"

// State is the execution state of a single task run.
type State string

const (
	StateNotStarted          State = "NOT_STARTED"
	StateCheckingDeprecation State = "CHECKING_DEPRECATION"
	StateResolvingConfig     State = "RESOLVING_CONFIG"
	StateBuildingCommand     State = "BUILDING_COMMAND"
	StateRunningProcess      State = "RUNNING_PROCESS"
	StateSucceeded           State = "SUCCEEDED"
	StateFailed              State = "FAILED"
)

// IsTerminal reports whether the state ends an execution.
func IsTerminal(s State) bool {
	return s == StateSucceeded || s == StateFailed
}

// next lists the only forward transitions; any non-terminal state may fail.
var next = map[State]State{
	StateNotStarted:          StateCheckingDeprecation,
	StateCheckingDeprecation: StateResolvingConfig,
	StateResolvingConfig:     StateBuildingCommand,
	StateBuildingCommand:     StateRunningProcess,
	StateRunningProcess:      StateSucceeded,
}

func isAllowedTransition(from, to State) bool {
	if IsTerminal(from) {
		return false
	}
	if to == StateFailed {
		return true
	}
	return next[from] == to
}

// stateMachine tracks one execution. Each state is visited at most once.
type stateMachine struct {
	current State
	history []State
}

func newStateMachine() *stateMachine {
	return &stateMachine{current: StateNotStarted, history: []State{StateNotStarted}}
}

func (m *stateMachine) transition(to State) error {
	if !isAllowedTransition(m.current, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", m.current, to)
	}
	m.current = to
	m.history = append(m.history, to)
	return nil
}

// fail moves to FAILED unless the machine already finished.
func (m *stateMachine) fail() {
	if !IsTerminal(m.current) {
		_ = m.transition(StateFailed)
	}
}

func (m *stateMachine) visited() []State {
	out := make([]State, len(m.history))
	copy(out, m.history)
	return out
}
