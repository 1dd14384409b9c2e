package domain

import "errors"

var (
	// ErrInvalidArgument marks malformed planning input (bad k, empty point set,
	// non-finite coordinates). It is returned before any work starts.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConvergenceLimitReached is advisory: the partitioner ran out of
	// iterations before assignments stabilized. The assignment is still usable.
	ErrConvergenceLimitReached = errors.New("convergence limit reached")
)
