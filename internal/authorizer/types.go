package authorizer

import (
	"context"
	"maps"
	"slices"
)

// Record is the persisted authorization state: tokens, token metadata and
// anything else the backend chooses to keep. Keys are defined by the backend.
type Record map[string]any

// Clone returns a shallow copy. A nil Record clones to an empty one.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	maps.Copy(out, r)
	return out
}

// Keys returns the record keys in sorted order.
func (r Record) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// StringValue returns the value stored under key when it is a string.
func (r Record) StringValue(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

// Credentials holds one round of prompted answers keyed by field name.
// They are handed to the backend and then dropped, never stored.
type Credentials map[string]string

// AcquireFunc exchanges credentials for a partial record to merge into storage.
//
// Returning (nil, nil) means the credentials were rejected and the user is
// asked again. A non-nil record, even an empty one, means they were accepted.
// A non-nil error aborts the cycle.
type AcquireFunc func(ctx context.Context, creds Credentials, current Record) (Record, error)

// RevokeFunc uses credentials to revoke the current authorization and returns
// the record keys to delete.
//
// Returning (nil, nil) means the credentials were rejected and the user is
// asked again. A non-nil slice, even an empty one, means they were accepted.
// A non-nil error aborts the cycle.
type RevokeFunc func(ctx context.Context, creds Credentials, current Record) ([]string, error)

// Attempt performs one unit of authorized work with a fresh snapshot.
// Returning an error matching ErrAuthRequired asks the controller to acquire
// authorization and call the attempt again.
type Attempt func(ctx context.Context, snapshot Record) error

// State is the phase a single Ensure or Revoke call is in.
type State int

const (
	// StateIdle means no cycle is running for the call.
	StateIdle State = iota

	// StatePrompting means the user is being asked for credentials.
	StatePrompting

	// StateAcquiring means the backend is checking the credentials.
	StateAcquiring

	// StatePersisting means accepted results are being written to the store.
	StatePersisting

	// StateRetrying means authorization was acquired and the attempt runs again.
	StateRetrying
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrompting:
		return "prompting"
	case StateAcquiring:
		return "acquiring"
	case StatePersisting:
		return "persisting"
	case StateRetrying:
		return "retrying"
	default:
		return "unknown"
	}
}
