package timer

import "context"

// Callback is the unit of work invoked on each tick. A returned error is
// counted as an executed tick, logged and swallowed; it never stops the run.
type Callback interface {
	Execute(context.Context) error
}

type CallbackFunc func(context.Context) error

func (f CallbackFunc) Execute(ctx context.Context) error {
	return f(ctx)
}
