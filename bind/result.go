package bind

import (
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/value"
)

// State is the explicit tri-state of a call result. The zero state is
// StatePending, so an uninitialized Result can never be read as a
// successful zero-valued outcome.
type State uint8

const (
	StatePending State = iota // not yet computed
	StateOK
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateOK:
		return "ok"
	case StateFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// Result is the outcome of a single marshaled call. Exactly one of
// Value and Err is meaningful, selected by State. Results live only
// for the duration of one call; nothing is shared across invocations.
type Result struct {
	Err   *errors.Error
	Value value.Value
	State State
}

// OK wraps a successfully produced host value.
func OK(v value.Value) Result {
	return Result{State: StateOK, Value: v}
}

// Fail wraps an error descriptor.
func Fail(err *errors.Error) Result {
	return Result{State: StateFailed, Err: err}
}

// Ok reports whether the call succeeded.
func (r Result) Ok() bool { return r.State == StateOK }

// Unpack returns the host value or the error. A pending result unpacks
// to a failure, never to a success.
func (r Result) Unpack() (value.Value, error) {
	switch r.State {
	case StateOK:
		return r.Value, nil
	case StateFailed:
		return value.Nil(), r.Err
	default:
		return value.Nil(), errors.InvalidInput(errors.PhaseInvoke, "result not yet computed")
	}
}
