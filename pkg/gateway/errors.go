package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrElementNotFound is returned when an expected UI element never appeared.
	ErrElementNotFound = errors.New("element not found")

	// ErrTimeout is returned when a bounded wait expired.
	ErrTimeout = errors.New("timed out")
)

// Kind classifies a failed controller operation.
type Kind int

const (
	KindAuth Kind = iota + 1
	KindProbe
	KindMutation
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindProbe:
		return "probe"
	case KindMutation:
		return "mutation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every Controller operation.
type Error struct {
	Kind   Kind
	Target string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s error: %s: %v", e.Target, e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, target, op string, err error) error {
	return &Error{Kind: kind, Target: target, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return 0
}

// IsTimeout reports whether err was caused by an element or wait timing out.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrElementNotFound)
}
