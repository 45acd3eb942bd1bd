// internal/engine/orchestrator/states.go
package orchestrator

// State labels one phase of turn processing. Transitions are linear with two
// terminal exits: a clarification request short-circuits before dispatch, and
// Done is reached for everything else since the parser never fails.
type State string

const (
	StateStart                 State = "start"
	StateClassifying           State = "classifying"
	StateExtracting            State = "extracting"
	StateAwaitingClarification State = "awaiting_clarification"
	StateDispatching           State = "dispatching"
	StateParsing               State = "parsing"
	StateDone                  State = "done"
	StateFailed                State = "failed"
)
