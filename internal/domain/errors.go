package domain

import "fmt"

// Error types for consistent error handling across the API.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       int
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Resource, e.ID)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrSourceUnavailable indicates the card dataset could not be read.
type ErrSourceUnavailable struct {
	Path string
	Err  error
}

func (e *ErrSourceUnavailable) Error() string {
	return fmt.Sprintf("card source unavailable [%s]: %v", e.Path, e.Err)
}

func (e *ErrSourceUnavailable) Unwrap() error {
	return e.Err
}

// ErrSourceEmpty indicates the card dataset has no records to derive from.
type ErrSourceEmpty struct {
	Path string
}

func (e *ErrSourceEmpty) Error() string {
	return fmt.Sprintf("card source empty: %s", e.Path)
}
