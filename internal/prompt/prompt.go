package prompt

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
)

var (
	// ErrInterrupted is returned when the user aborts input (Ctrl+C).
	ErrInterrupted = errors.New("prompt interrupted")

	// ErrNoMoreAnswers is returned by Scripted once its answers are used up.
	ErrNoMoreAnswers = errors.New("no more scripted answers")
)

// Field describes one value to collect.
type Field struct {
	// Name is the key under which the answer is returned.
	Name string `yaml:"name"`
	// Message is shown to the user. Defaults to Name.
	Message string `yaml:"message,omitempty"`
	// Hidden disables echo, for passwords and other secrets.
	Hidden bool `yaml:"hidden,omitempty"`
}

// Label returns the text shown before the input cursor.
func (f Field) Label() string {
	if f.Message != "" {
		return f.Message + ": "
	}
	return f.Name + ": "
}

// Spec is the ordered list of fields collected in one prompt round.
type Spec []Field

// DefaultSpec asks for a username and a hidden password.
func DefaultSpec() Spec {
	return Spec{
		{Name: "username", Message: "Enter username"},
		{Name: "password", Message: "Enter password", Hidden: true},
	}
}

// Validate checks that the spec has at least one field and that every field
// has a unique, non-blank name.
func (s Spec) Validate() error {
	if len(s) == 0 {
		return errors.New("prompt spec must contain at least one field")
	}
	seen := make(map[string]bool, len(s))
	for i, f := range s {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("prompt field %d has no name", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("prompt field %q is declared twice", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Names returns the field names in order.
func (s Spec) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Clone returns a copy that shares nothing with s.
func (s Spec) Clone() Spec {
	if s == nil {
		return nil
	}
	out := make(Spec, len(s))
	copy(out, s)
	return out
}

// Prompter collects one set of answers for spec.
type Prompter interface {
	Prompt(ctx context.Context, spec Spec) (map[string]string, error)
}

// Func adapts a plain function to the Prompter interface.
type Func func(ctx context.Context, spec Spec) (map[string]string, error)

// Prompt calls f.
func (f Func) Prompt(ctx context.Context, spec Spec) (map[string]string, error) {
	return f(ctx, spec)
}

// Static answers every prompt with the same values. It backs non-interactive
// use where the answers come from command-line flags.
type Static map[string]string

// Prompt returns a copy of s.
func (s Static) Prompt(ctx context.Context, spec Spec) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return maps.Clone(s), nil
}

// Scripted answers prompts from a fixed queue, one entry per round. Tests use
// it to script rejected and accepted rounds.
type Scripted struct {
	mu      sync.Mutex
	answers []map[string]string
	calls   int
	specs   []Spec
}

// NewScripted returns a Scripted prompter that hands out answers in order.
func NewScripted(answers ...map[string]string) *Scripted {
	return &Scripted{answers: answers}
}

// Prompt returns the next queued answer or ErrNoMoreAnswers.
func (s *Scripted) Prompt(ctx context.Context, spec Spec) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.specs = append(s.specs, spec)
	if len(s.answers) == 0 {
		return nil, ErrNoMoreAnswers
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return maps.Clone(next), nil
}

// Calls reports how many times Prompt was invoked.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Specs returns the specs passed to Prompt, in call order.
func (s *Scripted) Specs() []Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Spec(nil), s.specs...)
}
