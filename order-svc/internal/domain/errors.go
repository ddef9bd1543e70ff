package domain

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrInUse is returned when a row is still referenced by order history.
	ErrInUse = errors.New("record is referenced by existing orders")
	// ErrOutOfRange is returned when a value does not fit its column.
	ErrOutOfRange = errors.New("value is out of range")
)
