// Package chainq composes dependent SQL operations into a single chain that
// short-circuits on the first failure.
//
// A caller binds a connection and a context into a Session, runs a primitive
// operation to obtain an initial Chain, and appends further operations with
// the Then* combinators. Once any step fails, no later SQL is issued; the
// terminal Result carries either the final value or the first failure.
//
// Low-level driver errors never reach callers directly: the driver adapters
// (see the postgres and mysql subpackages) translate them into *Error values
// that can be matched by kind with the Is* predicates.
package chainq

// Result is the outcome of a single operation or of a whole chain: either a
// success carrying a value of type T, or a failure carrying a non-nil error.
// The zero value is a failure with a nil error and should not be used;
// construct results with Success and Fail.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Unit is the payload of operations that succeed without producing a value.
type Unit struct{}

// Success returns a successful result carrying v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Fail returns a failed result carrying err. err must be non-nil.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Done returns a successful result with no payload.
func Done() Result[Unit] {
	return Success(Unit{})
}

// Value returns the success payload, or the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure error, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// IsSuccess reports whether the result is a success.
func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// IsFailure reports whether the result is a failure.
func (r Result[T]) IsFailure() bool {
	return !r.ok
}

// Unwrap returns the payload and error as an ordinary Go pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Discard drops the payload, preserving success or failure.
func Discard[T any](r Result[T]) Result[Unit] {
	if r.ok {
		return Done()
	}
	return Fail[Unit](r.err)
}

// failFrom rewraps a failure under a new payload type.
func failFrom[In, Out any](r Result[In]) Result[Out] {
	return Fail[Out](r.err)
}
