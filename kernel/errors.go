package kernel

import "errors"

// Sentinel errors returned by conversions. Callers test them with
// errors.Is; the returned errors wrap them with the failing instance.
var (
	// ErrNonPositiveHeight is returned for extrusions shallower than the
	// kernel precision. No sweep is attempted.
	ErrNonPositiveHeight = errors.New("kernel: non-positive extrusion height")

	// ErrNoSegments is returned when no edge of a loop could be converted.
	ErrNoSegments = errors.New("kernel: no segment successfully converted")

	// ErrNoBoundaries is returned for faces without usable boundary loops.
	ErrNoBoundaries = errors.New("kernel: face with no boundaries")

	// ErrInvalidBounds is returned for faces mixing several outer loops
	// with inner loops.
	ErrInvalidBounds = errors.New("kernel: invalid configuration of boundaries")

	// ErrDegenerate is returned when geometry collapses and no recovery
	// path exists.
	ErrDegenerate = errors.New("kernel: degenerate geometry")

	// ErrUnsupported is returned for items the kernel cannot convert.
	ErrUnsupported = errors.New("kernel: unsupported item")

	// ErrInternal is returned when a conversion aborted on an unexpected
	// state, such as a wire that cannot be adjusted.
	ErrInternal = errors.New("kernel: internal error")
)
