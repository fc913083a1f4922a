package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Repair specific errors
	ErrIO              ErrorCode = "IO_ERROR"
	ErrParseFailure    ErrorCode = "PARSE_FAILURE"
	ErrUnknownStrategy ErrorCode = "UNKNOWN_STRATEGY"
	ErrStore           ErrorCode = "STORE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewIOError(path string, err error) *DomainError {
	return NewError(ErrIO, fmt.Sprintf("I/O failure on %s", path), err)
}

func NewParseFailureError(err error) *DomainError {
	return NewError(ErrParseFailure, "document is not valid JSON", err)
}

func NewUnknownStrategyError(name string) *DomainError {
	return NewError(ErrUnknownStrategy, fmt.Sprintf("Unknown repair strategy: %s", name), nil)
}

func NewStoreError(message string, err error) *DomainError {
	return NewError(ErrStore, message, err)
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
