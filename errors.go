package imagelab

import "errors"

// Errors returned by the engine packages. Call sites wrap them with context,
// test with errors.Is.
var (
	ErrInvalidMethod      = errors.New("invalid method")
	ErrInvalidKernelShape = errors.New("invalid kernel shape")
	ErrTransformNotReady  = errors.New("transform not ready")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrInvalidParameter   = errors.New("invalid parameter")
)
