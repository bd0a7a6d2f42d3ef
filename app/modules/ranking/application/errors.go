package rankingservice

import "errors"

var (
	// ErrInvalidReferenceMonth is returned for a month that is zero or not
	// normalized to the first day at UTC midnight.
	ErrInvalidReferenceMonth = errors.New("invalid reference month")

	// ErrInvalidManualOrder is returned when an admin-supplied ladder is
	// not a dense 1..N permutation of the current members.
	ErrInvalidManualOrder = errors.New("manual order is not a permutation of the current ladder")

	// ErrCloseRejected is returned by rollover when the close reported
	// violations and the month must not advance.
	ErrCloseRejected = errors.New("round close rejected by policy violations")
)
