package service

import "context"

// section is the result of one dashboard pipeline: either a value or the
// error that degraded it. Degraded sections render as their zero value; the
// request as a whole still succeeds.
type section[T any] struct {
	value T
	err   error
}

// ok reports whether the pipeline produced a value.
func (s section[T]) ok() bool { return s.err == nil }

// runSection executes one pipeline and captures its outcome. It always
// returns nil so errgroup siblings keep running; the error lives in the
// section, not the group.
func runSection[T any](ctx context.Context, dest *section[T], fn func(context.Context) (T, error)) func() error {
	return func() error {
		value, err := fn(ctx)
		*dest = section[T]{value: value, err: err}
		return nil
	}
}
