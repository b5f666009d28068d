package stability

import "errors"

var (
	// ErrInvalidTarget is returned when a target safety factor is not positive.
	ErrInvalidTarget = errors.New("target safety factor must be positive")

	// ErrDegenerateReaction is returned when a result requires dividing by a
	// zero vertical reaction.
	ErrDegenerateReaction = errors.New("degenerate vertical reaction")

	// ErrNoWaterLoad is returned when the friction coefficient is solved for
	// a section with no horizontal water load.
	ErrNoWaterLoad = errors.New("no horizontal water load; sliding is not applicable")

	// ErrUnknownParameter is returned for a solve-for name outside the
	// solvable set.
	ErrUnknownParameter = errors.New("unknown solvable parameter")

	// ErrNonFiniteResult is returned when finite inputs overflow to a NaN or
	// infinite force, moment or safety factor.
	ErrNonFiniteResult = errors.New("result is not a finite number")
)

// ValidationError reports an input that fails form-level validation.
type ValidationError struct {
	Field string
	msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.msg
	}
	return e.Field + ": " + e.msg
}

// NewValidationError reports msg against the named input field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, msg: msg}
}

func invalid(field, msg string) error {
	return NewValidationError(field, msg)
}
