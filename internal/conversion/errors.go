package conversion

import "errors"

// Sentinel errors returned by New. Use errors.Is to check.
var (
	ErrInvalidConversion = errors.New("conversion: ratio must be finite and positive, or a transform")
	ErrEmptyUnit         = errors.New("conversion: unit label is empty")
	ErrMissingMagnitude  = errors.New("conversion: magnitude generator is nil")
	ErrFormulaRequired   = errors.New("conversion: transform conversions need an explicit formula")
)
