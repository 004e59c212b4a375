package errors

// ErrorCategory classifies errors by their nature and retry semantics.
type ErrorCategory string

const (
	// CategoryTransient indicates failures that a later attempt may not repeat.
	CategoryTransient ErrorCategory = "transient"

	// CategoryPermanent indicates failures that persist until something changes.
	CategoryPermanent ErrorCategory = "permanent"

	// CategoryInternal indicates bugs or unexpected conditions.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// IsRetryable returns true if errors in this category may succeed on retry.
func (c ErrorCategory) IsRetryable() bool {
	return c == CategoryTransient
}

// ErrorCode identifies specific error types within categories.
type ErrorCode string

const (
	// Heartbeat attempt failures
	ErrCodeTransport         ErrorCode = "TRANSPORT"          // Request failed before a response arrived
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE" // Response body is not a JSON object
	ErrCodeApplication       ErrorCode = "APPLICATION"        // HTTP status or payload code is not 200
	ErrCodeTimeout           ErrorCode = "TIMEOUT"            // Request exceeded its deadline

	// Permanent failures
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT" // Invalid configuration value
	ErrCodeCanceled     ErrorCode = "CANCELED"      // Caller canceled the request

	// Internal failures
	ErrCodeInternal ErrorCode = "INTERNAL" // Unexpected internal error
	ErrCodePanic    ErrorCode = "PANIC"    // Recovered from panic
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	case ErrCodeTransport, ErrCodeMalformedResponse, ErrCodeApplication, ErrCodeTimeout:
		return CategoryTransient
	case ErrCodeInvalidInput, ErrCodeCanceled:
		return CategoryPermanent
	default:
		return CategoryInternal
	}
}

// DefaultRetryable returns whether this error code is typically retryable.
func (c ErrorCode) DefaultRetryable() bool {
	return c.DefaultCategory().IsRetryable()
}

var codeDescriptions = map[ErrorCode]string{
	ErrCodeTransport:         "heartbeat request failed",
	ErrCodeMalformedResponse: "malformed heartbeat response",
	ErrCodeApplication:       "heartbeat rejected by server",
	ErrCodeTimeout:           "heartbeat request timed out",
	ErrCodeInvalidInput:      "invalid input provided",
	ErrCodeCanceled:          "heartbeat request canceled",
	ErrCodeInternal:          "internal error",
	ErrCodePanic:             "recovered from panic",
}

// Description returns a human-readable description for the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}
