package storage

import "errors"

// Common storage errors
var (
	// ErrRecordNotFound indicates that collection record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrOperatorNotFound indicates that operator was not found
	ErrOperatorNotFound = errors.New("operator not found")

	// ErrOperatorAlreadyExists indicates that operator with this username already exists
	ErrOperatorAlreadyExists = errors.New("operator already exists")
)
