package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned by Send for blank input.
	ErrEmptyMessage = errors.New("chat: message is empty")

	// ErrRequestInFlight is returned by Send while another Send is outstanding.
	ErrRequestInFlight = errors.New("chat: a request is already in flight")

	// ErrNotConfigured matches every ConfigurationError via errors.Is.
	ErrNotConfigured = errors.New("chat: completion backend not configured")
)

// ExternalServiceError reports a failed completion call: a non-success HTTP
// status, a transport failure, or an unusable response. StatusCode is 0 when
// no response was received.
type ExternalServiceError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("chat: %s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("chat: %s: %s", e.Provider, e.Message)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// ConfigurationError means the completion backend cannot be built, usually
// because the credential is absent.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("chat: %s: %s", e.Provider, e.Reason)
}

// Is reports ErrNotConfigured as a match.
func (e *ConfigurationError) Is(target error) bool { return target == ErrNotConfigured }
