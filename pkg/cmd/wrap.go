package cmd

import "context"

// Unwrappable is implemented by wrapped executors so callers can reach the
// handler underneath (e.g. to type-assert to the concrete command).
type Unwrappable interface {
	Executor
	Unwrap() Executor
}

// Wrapped wraps an executor with a custom run function. Used by middleware.
type Wrapped struct {
	Inner   Executor
	RunFunc func(ctx context.Context, in Interaction) error
}

// Execute runs the wrapper's RunFunc, or the inner executor when unset.
func (w *Wrapped) Execute(ctx context.Context, in Interaction) error {
	if w.RunFunc != nil {
		return w.RunFunc(ctx, in)
	}
	return w.Inner.Execute(ctx, in)
}

// Unwrap returns the inner executor.
func (w *Wrapped) Unwrap() Executor { return w.Inner }

// Wrap returns an executor that runs run instead of e.Execute.
func Wrap(e Executor, run func(ctx context.Context, in Interaction) error) Executor {
	return &Wrapped{Inner: e, RunFunc: run}
}

// Root unwraps an executor until it is no longer Unwrappable.
func Root(e Executor) Executor {
	for {
		u, ok := e.(Unwrappable)
		if !ok {
			return e
		}
		e = u.Unwrap()
	}
}
