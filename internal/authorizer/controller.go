package authorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"authloop/internal/prompt"
	"authloop/internal/store"
	"authloop/pkg/logging"
)

// Config configures a Controller.
type Config struct {
	// Name identifies the persisted record. Required.
	Name string

	// Acquire turns credentials into a partial record. Required.
	Acquire AcquireFunc

	// Revoke turns credentials into the set of keys to delete. Required.
	Revoke RevokeFunc

	// Prompt lists the credential fields to ask for.
	// Defaults to prompt.DefaultSpec (username and hidden password).
	Prompt prompt.Spec

	// Prompter collects credentials. Defaults to an interactive terminal prompter.
	Prompter prompt.Prompter

	// Store persists the record. Defaults to a FileStore named after Name.
	Store store.Store

	// StoreDir overrides the parent directory of the default FileStore.
	StoreDir string

	// MaxRejections ends a cycle with ErrCredentialsRejected after that many
	// rejected rounds. Zero asks again until the backend accepts.
	MaxRejections int

	// OnStateChange, when set, observes the phase of every running call.
	// Concurrent calls all report to the same observer, and StateIdle is
	// reported only once no call is inside a cycle.
	OnStateChange func(State)
}

// Controller owns the authorization record. It runs the prompt, backend and
// persist cycle whenever authorization has to be acquired or revoked, and
// hands out snapshots of the record.
//
// Concurrent Ensure and Revoke calls are not serialized against each other:
// two overlapping calls may both prompt and both write to the store. Each
// individual store operation is atomic, nothing spans several of them.
type Controller struct {
	name     string
	acquire  AcquireFunc
	revoke   RevokeFunc
	spec     prompt.Spec
	prompter prompt.Prompter
	store    store.Store
	onState  func(State)

	maxRejections int

	activeMu sync.Mutex
	active   int
}

// New validates cfg and creates a Controller. Invalid settings yield a
// *ConfigurationError.
func New(cfg Config) (*Controller, error) {
	if cfg.Acquire == nil {
		return nil, &ConfigurationError{Field: "Acquire", Reason: "an acquire function is required"}
	}
	if cfg.MaxRejections < 0 {
		return nil, &ConfigurationError{Field: "MaxRejections", Reason: "must not be negative"}
	}
	if cfg.Revoke == nil {
		return nil, &ConfigurationError{Field: "Revoke", Reason: "a revoke function is required"}
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, &ConfigurationError{Field: "Name", Reason: "a non-empty name is required"}
	}

	spec := cfg.Prompt
	if len(spec) == 0 {
		spec = prompt.DefaultSpec()
	} else if err := spec.Validate(); err != nil {
		return nil, &ConfigurationError{Field: "Prompt", Reason: err.Error()}
	}

	prompter := cfg.Prompter
	if prompter == nil {
		prompter = prompt.NewTerminal(prompt.TerminalConfig{})
	}

	st := cfg.Store
	if st == nil {
		fileStore, err := store.NewFileStore(store.FileStoreConfig{Name: name, Dir: cfg.StoreDir})
		if err != nil {
			return nil, &ConfigurationError{Field: "Name", Reason: err.Error()}
		}
		st = fileStore
	}

	return &Controller{
		name:     name,
		acquire:  cfg.Acquire,
		revoke:   cfg.Revoke,
		spec:     spec.Clone(),
		prompter: prompter,
		store:    st,
		onState:  cfg.OnStateChange,

		maxRejections: cfg.MaxRejections,
	}, nil
}

// Snapshot returns a copy of the persisted record. Changing the copy never
// affects the store or later snapshots.
func (c *Controller) Snapshot(ctx context.Context) (Record, error) {
	all, err := c.store.All(ctx)
	if err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}
	return Record(all).Clone(), nil
}

// Ensure runs attempt with a fresh snapshot. While attempt returns an error
// matching ErrAuthRequired, Ensure runs an acquisition cycle and then calls
// attempt again with a new snapshot. It returns nil once attempt succeeds,
// attempt's own error if it fails for any other reason, or the error of a
// failed acquisition cycle.
func (c *Controller) Ensure(ctx context.Context, attempt Attempt) error {
	call := &callState{c: c}
	defer call.done()

	for {
		snapshot, err := c.Snapshot(ctx)
		if err != nil {
			return err
		}

		err = attempt(ctx, snapshot)
		if !errors.Is(err, ErrAuthRequired) {
			return err
		}

		logging.Debug("Authorizer", "Authorization for %s is insufficient, acquiring", c.name)
		if err := c.cycle(ctx, call, modeAcquire, snapshot); err != nil {
			return err
		}
		call.set(StateRetrying)
	}
}

// Revoke runs one revocation cycle: prompt, call the revoke backend, and
// delete exactly the keys it returns.
func (c *Controller) Revoke(ctx context.Context) error {
	call := &callState{c: c}
	defer call.done()

	snapshot, err := c.Snapshot(ctx)
	if err != nil {
		return err
	}
	return c.cycle(ctx, call, modeRevoke, snapshot)
}

type cycleMode int

const (
	modeAcquire cycleMode = iota
	modeRevoke
)

func (m cycleMode) String() string {
	if m == modeRevoke {
		return "revoke"
	}
	return "acquire"
}

// cycle prompts and calls the backend until the credentials are accepted,
// then persists the result. Rejections re-prompt until MaxRejections is reached,
// or without limit when it is zero. A prompt failure, a backend error, a store
// error or ctx ends the loop early.
// current is the snapshot taken when the cycle began and is reused for every round.
func (c *Controller) cycle(ctx context.Context, call *callState, mode cycleMode, current Record) error {
	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		call.set(StatePrompting)
		answers, err := c.prompter.Prompt(ctx, c.spec.Clone())
		if err != nil {
			logging.Debug("Authorizer", "Prompt for %s failed: %v", c.name, err)
			return &PromptError{Err: err}
		}

		call.set(StateAcquiring)
		var accepted bool
		if mode == modeAcquire {
			accepted, err = c.acquireOnce(ctx, call, Credentials(answers), current.Clone())
		} else {
			accepted, err = c.revokeOnce(ctx, call, Credentials(answers), current.Clone())
		}
		if err != nil {
			return err
		}
		if accepted {
			return nil
		}

		logging.Warn("Authorizer", "Credentials rejected by %s backend for %s (attempt %d)", mode, c.name, round)
		logging.Audit(logging.AuditEvent{
			Action:  "credentials_rejected",
			Outcome: "failure",
			Target:  c.name,
		})
		if c.maxRejections > 0 && round >= c.maxRejections {
			return fmt.Errorf("%s for %s after %d attempt(s): %w", mode, c.name, round, ErrCredentialsRejected)
		}
	}
}

func (c *Controller) acquireOnce(ctx context.Context, call *callState, creds Credentials, current Record) (bool, error) {
	partial, err := c.acquire(ctx, creds, current)
	if err != nil {
		return false, &BackendError{Op: "acquire", Err: err}
	}
	if partial == nil {
		return false, nil
	}

	call.set(StatePersisting)
	if err := c.store.Set(ctx, partial.Clone()); err != nil {
		logging.Error("Authorizer", err, "Failed to persist authorization for %s", c.name)
		return false, &StoreError{Op: "set", Err: err}
	}

	logging.Audit(logging.AuditEvent{
		Action:  "record_updated",
		Outcome: "success",
		Target:  c.name,
		Keys:    partial.Keys(),
	})
	return true, nil
}

func (c *Controller) revokeOnce(ctx context.Context, call *callState, creds Credentials, current Record) (bool, error) {
	keys, err := c.revoke(ctx, creds, current)
	if err != nil {
		return false, &BackendError{Op: "revoke", Err: err}
	}
	if keys == nil {
		return false, nil
	}

	call.set(StatePersisting)
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			logging.Error("Authorizer", err, "Failed to delete %s from %s", key, c.name)
			return false, &StoreError{Op: "delete", Key: key, Err: err}
		}
	}

	logging.Audit(logging.AuditEvent{
		Action:  "record_revoked",
		Outcome: "success",
		Target:  c.name,
		Keys:    keys,
	})
	return true, nil
}

// callState reports the phases of one Ensure or Revoke call. The controller
// counts calls that have entered a cycle and reports StateIdle when the last
// of them finishes.
type callState struct {
	c       *Controller
	entered bool
}

func (cs *callState) set(s State) {
	if !cs.entered {
		cs.entered = true
		cs.c.activeMu.Lock()
		cs.c.active++
		cs.c.activeMu.Unlock()
	}
	cs.c.notify(s)
}

func (cs *callState) done() {
	if !cs.entered {
		return
	}
	cs.c.activeMu.Lock()
	defer cs.c.activeMu.Unlock()
	cs.c.active--
	if cs.c.active == 0 {
		cs.c.notify(StateIdle)
	}
}

func (c *Controller) notify(s State) {
	if c.onState != nil {
		c.onState(s)
	}
}
