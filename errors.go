package histcache

import (
	"errors"
	"fmt"
)

var (
	ErrNilProvider      = errors.New("histcache: provider is required")
	ErrClosed           = errors.New("histcache: cache is closed")
	ErrUnsupportedValue = errors.New("histcache: unsupported value type")
	ErrIntOverflow      = errors.New("histcache: integer does not fit in int64")
	ErrInvalidUTF8      = errors.New("histcache: value is not valid UTF-8")
)

// ResetError reports a failed reset while bringing a cache up.
type ResetError struct {
	FlushErr   error
	CounterErr error
}

func (e *ResetError) Error() string {
	switch {
	case e.FlushErr != nil && e.CounterErr != nil:
		return fmt.Sprintf("reset failed: flush and counter reset failed: flush=%v; counters=%v",
			e.FlushErr, e.CounterErr)
	case e.FlushErr != nil:
		return fmt.Sprintf("reset: flush failed: %v", e.FlushErr)
	case e.CounterErr != nil:
		return fmt.Sprintf("reset: counter reset failed: %v", e.CounterErr)
	default:
		return "reset: unknown error"
	}
}

func (e *ResetError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.FlushErr != nil {
		errs = append(errs, e.FlushErr)
	}
	if e.CounterErr != nil {
		errs = append(errs, e.CounterErr)
	}
	return errs
}
