package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for comparison using errors.Is()
var (
	// ErrLoadFailure means the catalog could not be read or parsed
	ErrLoadFailure = errors.New("catalog load failure")
	// ErrPersistenceFailure means cart storage could not be read or written
	ErrPersistenceFailure = errors.New("persistence failure")
	// ErrInvalidInput means a query parameter could not be interpreted
	ErrInvalidInput = errors.New("invalid input")

	ErrProductNotFound = errors.New("product not found")
	ErrCatalogNotReady = errors.New("catalog not ready")
	ErrStorageClosed   = errors.New("storage closed")
)

// StoreError provides structured error information with context
type StoreError struct {
	Op   string // Operation that failed (e.g., "cart.persist")
	Kind error  // One of the sentinel errors above
	Err  error  // Underlying error
}

// Error returns the string representation of the error
func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns both the kind and the cause so errors.Is matches either
func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewStoreError creates a new StoreError
func NewStoreError(op string, kind error, err error) *StoreError {
	return &StoreError{Op: op, Kind: kind, Err: err}
}
