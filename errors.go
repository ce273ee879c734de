package bindata

import "errors"

// Failure conditions raised by the engine. Each distinct condition has
// its own sentinel so callers can dispatch with errors.Is().
var (
	// Registry lookup miss.
	UnknownTypeError = errors.New("Unknown type")

	// Endian other than little or big.
	UnknownEndianError = errors.New("Unknown endian")

	// A declared parameter name shadows a reserved identifier.
	InvalidNameError = errors.New("Invalid parameter name")

	// Two fields in the same struct share a name.
	DuplicateFieldError = errors.New("Duplicate field name")

	// A field name collides with a reserved identifier.
	ReservedNameError = errors.New("Reserved field name")

	// Sanitization failures.
	NilParameterError           = errors.New("Parameter value is nil")
	MissingParameterError       = errors.New("Missing mandatory parameter")
	MutualExclusionError        = errors.New("Mutually exclusive parameters")
	UnknownParameterError       = errors.New("Unknown parameter")

	// check_value mismatch after read, or an infeasible max_length.
	ValidityError = errors.New("Value failed validation")

	// check_offset failed, or adjust_offset would seek backwards past
	// the read origin.
	OffsetMismatchError = errors.New("Offset mismatch")

	// IO short read.
	EndOfStreamError = errors.New("End of stream")

	// The lazy evaluator could not bind a symbol anywhere on the
	// ancestor chain.
	UnresolvedSymbolError = errors.New("Unresolved symbol")

	// A choice selection key has no matching prototype.
	UnknownChoiceError = errors.New("Unknown choice")
)
