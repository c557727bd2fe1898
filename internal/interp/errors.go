package interp

import "glox/internal/token"

// RuntimeError is the Go error type carrying a Lox runtime failure,
// distinct from the returnSignal control-flow signal below: callers
// must never confuse a `return` unwind with an actual error.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// returnSignal carries a `return` statement's value up to the call
// frame that should catch it. It implements `error` only so it can
// travel through the same `error`-returning execute/evaluate plumbing
// as RuntimeError without a second parallel mechanism; callers
// distinguish the two by type, never by message text.
type returnSignal struct {
	value Value
}

func (returnSignal) Error() string { return "return" }
