package cli

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"authloop/internal/authorizer"
)

// Progress shows a spinner while the authorization server is contacted.
// Its Observe method is an authorizer OnStateChange callback. The spinner is
// stopped before every prompt so it never draws over terminal input.
type Progress struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	quiet   bool
}

// NewProgress creates a Progress writing to w. A quiet Progress does nothing.
func NewProgress(w io.Writer, quiet bool) *Progress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	return &Progress{spinner: s, quiet: quiet}
}

// Observe updates the spinner for state.
func (p *Progress) Observe(state authorizer.State) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	switch state {
	case authorizer.StateAcquiring:
		p.start(" Contacting authorization server...")
	case authorizer.StatePersisting:
		p.start(" Saving authorization...")
	case authorizer.StateRetrying:
		p.start(" Retrying request...")
	default:
		p.spinner.Stop()
	}
}

// Suffix returns the text currently shown next to the spinner.
func (p *Progress) Suffix() string {
	p.spinner.Lock()
	defer p.spinner.Unlock()
	return p.spinner.Suffix
}

// Active reports whether the spinner is running.
func (p *Progress) Active() bool {
	return p.spinner.Active()
}

// Stop stops the spinner.
func (p *Progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spinner.Stop()
}

func (p *Progress) start(suffix string) {
	p.spinner.Lock()
	p.spinner.Suffix = suffix
	p.spinner.Unlock()
	if !p.spinner.Active() {
		p.spinner.Start()
	}
}
