package authorizer

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired is returned by an Attempt to signal that the current
	// authorization is insufficient and must be acquired again.
	ErrAuthRequired = errors.New("authorization required")

	// ErrRequestFailed stands in when a request reports failure without an error.
	ErrRequestFailed = errors.New("request failed")

	// ErrCredentialsRejected ends a cycle once Config.MaxRejections rounds
	// were rejected.
	ErrCredentialsRejected = errors.New("credentials rejected")
)

// ConfigurationError reports an invalid Config or ProviderConfig.
// It is returned at construction time only and is never retried.
type ConfigurationError struct {
	// Field is the offending setting.
	Field string
	// Reason explains what is wrong with it.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid authorizer configuration: %s: %s", e.Field, e.Reason)
}

// PromptError reports that credentials could not be collected, e.g. the user
// pressed Ctrl+C. It aborts the running cycle.
type PromptError struct {
	Err error
}

// Error implements the error interface.
func (e *PromptError) Error() string {
	return fmt.Sprintf("failed to read credentials: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *PromptError) Unwrap() error {
	return e.Err
}

// BackendError reports that the acquire or revoke backend failed for a reason
// other than rejecting the credentials. It aborts the running cycle.
type BackendError struct {
	// Op is "acquire" or "revoke".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// StoreError reports that the persisted record could not be read or written.
type StoreError struct {
	// Op is "read", "set" or "delete".
	Op string
	// Key is set for delete failures.
	Key string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store %s %q failed: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}
