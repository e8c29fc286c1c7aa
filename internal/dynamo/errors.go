package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParameter indicates a Configurable was asked for a name it does not own.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")
)
