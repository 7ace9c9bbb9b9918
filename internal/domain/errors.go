package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors for retry and reporting decisions.
type ErrorKind string

const (
	ErrorKindSource      ErrorKind = "source"
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindRateLimited ErrorKind = "rate_limited"
	ErrorKindAPI         ErrorKind = "api"
	ErrorKindPersistence ErrorKind = "persistence"
	ErrorKindIO          ErrorKind = "io"
)

// DomainError carries an error kind alongside context.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error.
func NewError(kind ErrorKind, message string, err error) *DomainError {
	return &DomainError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// SourceError marks a failed source-table fetch. Fatal for merge runs.
func SourceError(table string, err error) *DomainError {
	return NewError(ErrorKindSource, fmt.Sprintf("%s query failed", table), err)
}

// ValidationError marks a rejected candidate value.
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorKindValidation, message, err)
}

// RateLimitedError marks a quota or rate-limit response from an external API.
func RateLimitedError(message string, err error) *DomainError {
	return NewError(ErrorKindRateLimited, message, err)
}

// APIError marks a non-retryable external API failure.
func APIError(message string, err error) *DomainError {
	return NewError(ErrorKindAPI, message, err)
}

// PersistenceError marks a failed database write.
func PersistenceError(message string, err error) *DomainError {
	return NewError(ErrorKindPersistence, message, err)
}

// IOError marks a download or filesystem failure.
func IOError(message string, err error) *DomainError {
	return NewError(ErrorKindIO, message, err)
}

// IsRateLimited reports whether err (or anything it wraps) is a rate-limit error.
func IsRateLimited(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind == ErrorKindRateLimited
	}
	return false
}

// KindOf returns the error kind, or "" for non-domain errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
