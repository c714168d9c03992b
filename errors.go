package squarelist

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAscending is returned when a bulk-load source is not sorted.
	ErrNotAscending = errors.New("values are not in ascending order")

	// ErrCapacityExceeded is returned when a bulk-load source holds more
	// values than the declared capacity.
	ErrCapacityExceeded = errors.New("more values than the capacity allows")

	// ErrNegativeSlack is returned by ShrinkWithSlackOf for a negative slack.
	ErrNegativeSlack = errors.New("slack must not be negative")
)

// OrderError reports the source position of the first out-of-order value.
//
// errors.Is(err, ErrNotAscending) matches it.
type OrderError struct {
	Index int
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%v: value at index %d is less than its predecessor", ErrNotAscending, e.Index)
}

func (e *OrderError) Unwrap() error { return ErrNotAscending }

// CapacityError reports the declared capacity a bulk load overran.
//
// errors.Is(err, ErrCapacityExceeded) matches it.
type CapacityError struct {
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: capacity %d", ErrCapacityExceeded, e.Capacity)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// SlackError reports an invalid slack passed to ShrinkWithSlackOf.
//
// errors.Is(err, ErrNegativeSlack) matches it.
type SlackError struct {
	Slack int
}

func (e *SlackError) Error() string {
	return fmt.Sprintf("%v: got %d", ErrNegativeSlack, e.Slack)
}

func (e *SlackError) Unwrap() error { return ErrNegativeSlack }
