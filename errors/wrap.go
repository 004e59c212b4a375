package errors

import (
	"context"
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context while preserving the error chain.
// If err is nil, Wrap returns nil.
// If err is already an *Error, its code and metadata carry over.
// Context errors map to TIMEOUT and CANCELED; anything else becomes INTERNAL.
func Wrap(err error, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	var hbErr *Error
	if errors.As(err, &hbErr) {
		wrapped := &Error{
			code:      hbErr.code,
			category:  hbErr.category,
			message:   message,
			cause:     err,
			metadata:  hbErr.Metadata(),
			retryable: hbErr.retryable,
			timestamp: hbErr.timestamp,
			attemptID: hbErr.attemptID,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(ErrCodeTimeout, message, append(opts, WithCause(err))...)
	}
	if errors.Is(err, context.Canceled) {
		return New(ErrCodeCanceled, message, append(opts, WithCause(err))...)
	}

	return New(ErrCodeInternal, message, append(opts, WithCause(err))...)
}

// AsHeartbeatError extracts a HeartbeatError from an error chain.
// Returns nil if none is found.
func AsHeartbeatError(err error) HeartbeatError {
	var hbErr *Error
	if errors.As(err, &hbErr) {
		return hbErr
	}
	return nil
}

// Is checks if any error in the chain has the given error code.
func Is(err error, code ErrorCode) bool {
	var hbErr *Error
	if errors.As(err, &hbErr) {
		return hbErr.code == code
	}
	return false
}

// IsCategory checks if any error in the chain has the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var hbErr *Error
	if errors.As(err, &hbErr) {
		return hbErr.category == category
	}
	return false
}

// IsRetryable checks if the error is retryable.
// Plain errors are not.
func IsRetryable(err error) bool {
	var hbErr *Error
	if errors.As(err, &hbErr) {
		return hbErr.Retryable()
	}
	return false
}

// Code extracts the error code from an error, if available.
func Code(err error) ErrorCode {
	var hbErr *Error
	if errors.As(err, &hbErr) {
		return hbErr.code
	}
	return ""
}

// GetMetadata extracts metadata from an error.
// Returns nil if err is not an *Error.
func GetMetadata(err error) map[string]string {
	var hbErr *Error
	if errors.As(err, &hbErr) {
		return hbErr.Metadata()
	}
	return nil
}

// Cause returns the root cause of the error chain.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		inner := unwrapper.Unwrap()
		if inner == nil {
			return err
		}
		err = inner
	}
}

// RecoverPanic converts a recovered panic value into an Error.
func RecoverPanic(recovered interface{}) *Error {
	if recovered == nil {
		return nil
	}
	var message string
	switch v := recovered.(type) {
	case error:
		message = v.Error()
	case string:
		message = v
	default:
		message = fmt.Sprintf("%v", v)
	}
	return New(ErrCodePanic, message, WithMetadata("panic_value", fmt.Sprintf("%T", recovered)))
}
