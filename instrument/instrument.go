// Package instrument composes call instrumentation around operations.
//
// An Instrument observes one invocation through two hooks: Before runs ahead
// of the operation, After runs once it returns (successfully or not).
// Wrap chains instruments around an Op; the first instrument is outermost.
//
//	store := instrument.Wrap("Cache.store", rawStore,
//	    instrument.NewCounter(counters),     // counts every attempt
//	    instrument.NewHistory(kv, argsCodec), // records inputs/outputs
//	)
package instrument

import (
	"context"
	"errors"
	"fmt"
)

// Instrument observes calls to a named operation.
type Instrument interface {
	// Before runs ahead of the call. A non-nil error aborts the call.
	Before(ctx context.Context, name string, args []any) error
	// After runs once the call (or an inner Before) finished. callErr is the
	// failure that ended the call, if any.
	After(ctx context.Context, name string, args []any, result any, callErr error) error
}

// Op is an operation that can be instrumented.
type Op[R any] func(ctx context.Context, args ...any) (R, error)

// Phase names where an instrument failed.
type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseAfter  Phase = "after"
)

// Error reports an instrument failure around a named operation.
type Error struct {
	Op    string
	Phase Phase
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("instrument %s %q: %v", e.Phase, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns op instrumented by ins. Befores run in order, Afters in reverse.
//
// If a Before fails the operation is not called; instruments already entered
// still get After with that error, then the *Error is returned.
// If the operation succeeds but an After fails, the result is returned together
// with the *Error so the caller can decide whether the side effect counts.
func Wrap[R any](name string, op Op[R], ins ...Instrument) Op[R] {
	return func(ctx context.Context, args ...any) (R, error) {
		var zero R
		for i, in := range ins {
			if err := in.Before(ctx, name, args); err != nil {
				berr := &Error{Op: name, Phase: PhaseBefore, Err: err}
				if uerr := unwind(ctx, name, args, ins[:i], nil, berr); uerr != nil {
					return zero, errors.Join(berr, uerr)
				}
				return zero, berr
			}
		}

		res, callErr := op(ctx, args...)

		var result any
		if callErr == nil {
			result = res
		}
		if aerr := unwind(ctx, name, args, ins, result, callErr); aerr != nil {
			return res, errors.Join(callErr, aerr)
		}
		return res, callErr
	}
}

// unwind runs After for entered instruments, innermost first.
func unwind(ctx context.Context, name string, args []any, entered []Instrument, result any, callErr error) error {
	var errs []error
	for i := len(entered) - 1; i >= 0; i-- {
		if err := entered[i].After(ctx, name, args, result, callErr); err != nil {
			errs = append(errs, &Error{Op: name, Phase: PhaseAfter, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Funcs adapts plain functions to Instrument. Nil fields are skipped.
type Funcs struct {
	BeforeFunc func(ctx context.Context, name string, args []any) error
	AfterFunc  func(ctx context.Context, name string, args []any, result any, callErr error) error
}

var _ Instrument = Funcs{}

func (f Funcs) Before(ctx context.Context, name string, args []any) error {
	if f.BeforeFunc == nil {
		return nil
	}
	return f.BeforeFunc(ctx, name, args)
}

func (f Funcs) After(ctx context.Context, name string, args []any, result any, callErr error) error {
	if f.AfterFunc == nil {
		return nil
	}
	return f.AfterFunc(ctx, name, args, result, callErr)
}
