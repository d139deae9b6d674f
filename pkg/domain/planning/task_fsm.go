package planning

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration.
const (
	StateActive = "active"
	StateDone   = "done"
)

// Events accepted by the task machine.
const (
	EventComplete = "complete"
	EventReopen   = "reopen"
)

// TaskContext carries state data.
type TaskContext struct {
	TaskID string
}

// TaskStateMachine drives a task between active and done.
type TaskStateMachine struct {
	interpreter *statekit.Interpreter[TaskContext]
}

// NewTaskStateMachine builds a machine positioned at the task's current state.
func NewTaskStateMachine(task Task) (*TaskStateMachine, error) {
	initial := StateActive
	if task.Done {
		initial = StateDone
	}

	builder := statekit.NewMachine[TaskContext]("study-task").
		WithInitial(statekit.StateID(initial)).
		WithContext(TaskContext{TaskID: task.ID})

	builder.State(StateActive).
		On(EventComplete).Target(StateDone).
		Done()

	builder.State(StateDone).
		On(EventReopen).Target(StateActive).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &TaskStateMachine{interpreter: interpreter}, nil
}

// Transition sends an event; it fails if the event does not apply.
func (sm *TaskStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if sm.Current() != before {
		return nil
	}
	return fmt.Errorf("event %q is not allowed while the task is %s", event, before)
}

// Toggle completes an active task or reopens a done one.
func (sm *TaskStateMachine) Toggle() error {
	if sm.IsDone() {
		return sm.Transition(EventReopen)
	}
	return sm.Transition(EventComplete)
}

func (sm *TaskStateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}

// IsDone reports whether the machine sits in the done state.
func (sm *TaskStateMachine) IsDone() bool {
	return sm.Current() == StateDone
}
