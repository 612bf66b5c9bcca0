package tourney

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for inputs no model can compute on:
	// fewer than two players, a zero chip total, negative amounts or a
	// non-positive simulation count.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported is returned when a model refuses an input it could
	// in principle compute, such as too many players for exact enumeration.
	ErrUnsupported = errors.New("unsupported")
)

// UnsupportedError reports that exact enumeration was refused because the
// field is larger than the configured ceiling. Callers can fall back to
// Monte Carlo.
type UnsupportedError struct {
	Players int
	Ceiling int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%v: %d players exceeds the exact enumeration ceiling of %d",
		ErrUnsupported, e.Players, e.Ceiling)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
