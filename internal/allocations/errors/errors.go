package errors

import "errors"

var (
	ErrNotFound = errors.New("allocation not found")

	ErrInvalidID = errors.New("invalid allocation ID format")

	// ErrDuplicateSlot is returned when the unique (vehicle_id,
	// allocation_date) index rejects a write. It is the storage-level
	// variant of a booking conflict.
	ErrDuplicateSlot = errors.New("vehicle already allocated for date")
)
