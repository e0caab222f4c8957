package oraclient

import (
	"errors"
	"fmt"
)

// ErrOpenFailed matches every *OpenError with errors.Is.
var ErrOpenFailed = errors.New("oraclient: connection open failed")

// ValidationError reports a missing or malformed configuration value or
// argument.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("oraclient: invalid %s: %s", e.Field, e.Reason)
}

// OpenError is returned by every Factory open method when the connection
// could not be established. The message and Attributes carry only the
// credential-free attribute string; the driver's cause is available through
// errors.Unwrap and may contain sensitive detail.
type OpenError struct {
	Attributes string
	cause      error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("oraclient: failed to open connection <%s>", e.Attributes)
}

func (e *OpenError) Unwrap() error { return e.cause }

func (e *OpenError) Is(target error) bool { return target == ErrOpenFailed }
