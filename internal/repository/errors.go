package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable is returned when the spreadsheet pull fails.
	// Retryable: the previous snapshot stays in place.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSchemaMismatch is returned when the pulled rows are narrower than
	// the column schema requires. The refresh cycle is skipped.
	ErrSchemaMismatch = errors.New("source schema mismatch")
)
