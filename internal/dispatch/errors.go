package dispatch

import "errors"

// Error kinds surfaced by dispatch operations. Callers match with errors.Is
// and map each kind to a user-facing message; the engine wraps them with
// entity context via fmt.Errorf and %w.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("operation not allowed in current state")
	ErrCourierUnavailable = errors.New("courier is not available")
	ErrActiveRouteExists  = errors.New("courier has an active route")
	ErrForbidden          = errors.New("actor is not allowed to perform this transition")
	ErrNoCourierAvailable = errors.New("no courier available")
	ErrBatchTooLarge      = errors.New("batch exceeds the maximum size")
	ErrEmptySelection     = errors.New("no orders selected")
	ErrEmptyRoute         = errors.New("route has no orders")
)
