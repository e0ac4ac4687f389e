package placement

import "errors"

// Sentinel errors for placement operations.
var (
	// ErrInvalidArrangement indicates a room shape that cannot be resolved into seats.
	ErrInvalidArrangement = errors.New("placement: invalid seat arrangement")
	// ErrDuplicateSeat indicates two seats share an id or a row/column position.
	ErrDuplicateSeat = errors.New("placement: duplicate seat")
	// ErrRoomNotFound indicates a pin names a room that is not part of the result set.
	ErrRoomNotFound = errors.New("placement: pinned room not found")
	// ErrSeatNotResolved indicates no seat could be resolved or synthesized for a pin.
	ErrSeatNotResolved = errors.New("placement: pinned seat could not be resolved")
	// ErrInvalidWeights indicates a weight outside the accepted [0.1, 1.0] range.
	ErrInvalidWeights = errors.New("placement: weights must be within [0.1, 1.0]")
	// ErrUnknownOptimizer indicates an optimizer name with no implementation.
	ErrUnknownOptimizer = errors.New("placement: unknown optimizer")
)
