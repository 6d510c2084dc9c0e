package errors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeNotFound              ErrorType = "NOT_FOUND"
	ErrTypeInvalidRecord         ErrorType = "INVALID_RECORD"
	ErrTypeInternal              ErrorType = "INTERNAL"
	ErrTypeUnavailable           ErrorType = "UNAVAILABLE"
	ErrTypeAggregationInProgress ErrorType = "AGGREGATION_IN_PROGRESS"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

func InvalidRecord(message string, err error) *DomainError {
	return New(ErrTypeInvalidRecord, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

func Unavailable(message string, err error) *DomainError {
	return New(ErrTypeUnavailable, message, err)
}

func AggregationInProgress(message string) *DomainError {
	return New(ErrTypeAggregationInProgress, message, nil)
}

// IsType reports whether err is a DomainError of the given type anywhere in
// its chain.
func IsType(err error, errType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errType
	}
	return false
}

func IsNotFound(err error) bool {
	return IsType(err, ErrTypeNotFound)
}

func IsInvalidRecord(err error) bool {
	return IsType(err, ErrTypeInvalidRecord)
}

func IsAggregationInProgress(err error) bool {
	return IsType(err, ErrTypeAggregationInProgress)
}
