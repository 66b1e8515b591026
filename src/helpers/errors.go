package helpers

import (
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type StreamerError struct {
	Message string
	Cause   error
}

func (e *StreamerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StreamerError) Unwrap() error {
	return e.Cause
}

// Distinct error types for type assertions where callers care
type BindError struct{ StreamerError }
type ValidationError struct{ StreamerError }
type DatabaseError struct{ StreamerError }
type NotificationError struct{ StreamerError }

// -----------------------------------------------------------------------------

// NewBindError wraps a listen failure on the given address.
func NewBindError(addr string, cause error) *BindError {
	return &BindError{StreamerError{Message: fmt.Sprintf("failed to bind %s", addr), Cause: cause}}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts to execute the operation up to maxRetries times
// with exponential backoff between attempts.
func RetryWithBackoff(operation string, maxRetries int, baseDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		fmt.Printf("Warning: Attempt %d/%d failed for %s: %v. Retrying in %v\n", attempt+1, maxRetries, operation, err, delay)
		time.Sleep(delay)
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, maxRetries, lastErr)
}
