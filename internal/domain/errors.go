package domain

import "errors"

var (
	// ErrInvalidDirection indicates an action other than "add" or "sub".
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrInvalidDay indicates a day key that is not a valid YYYY-MM-DD date.
	ErrInvalidDay = errors.New("invalid day key")
)
