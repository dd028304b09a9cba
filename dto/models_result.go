package dto

// Result is the inspectable form of a typed call outcome: exactly one
// of value or error is populated. The error-returning entry points are
// thin unwraps over this type.
type Result[T any] struct {
	value T
	err   error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) IsOk() bool { return r.err == nil }

func (r Result[T]) Value() (T, error) { return r.value, r.err }

func (r Result[T]) Error() error { return r.err }

// MustValue panics on a failed result. Intended for tests and startup
// paths where the error has already been checked.
func (r Result[T]) MustValue() T {
	if r.err != nil {
		panic(r.err)
	}
	return r.value
}
