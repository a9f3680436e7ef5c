package hedge

import "errors"

// The two failure kinds of a hedge solve. Errors returned by this package wrap
// exactly one of them (plus the underlying linalg/risk sentinel), so callers
// can branch with errors.Is.
var (
	// ErrPrecondition marks caller errors: mismatched dimensions, an invalid key
	// grid, a negative ridge. Retrying with the same inputs cannot succeed.
	ErrPrecondition = errors.New("hedge: precondition violated")

	// ErrIllConditioned marks a normal-equation system that cannot be solved at
	// the requested ridge level. A larger ridge lambda may succeed.
	ErrIllConditioned = errors.New("hedge: ill-conditioned system")
)
