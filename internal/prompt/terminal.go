package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"authloop/pkg/logging"

	"github.com/chzyer/readline"
)

// TerminalConfig configures a Terminal prompter.
type TerminalConfig struct {
	// Stdin defaults to os.Stdin.
	Stdin io.ReadCloser
	// Stdout defaults to os.Stderr so that answers never mix with command output.
	Stdout io.Writer
}

// Terminal reads answers interactively with readline. Hidden fields are read
// without echo. Only one prompt round runs at a time per Terminal, and all
// rounds share one readline instance so input typed or piped ahead of a
// re-prompt is not lost. Call Close when done.
type Terminal struct {
	mu     sync.Mutex
	stdin  io.ReadCloser
	stdout io.Writer
	rl     *readline.Instance
}

// NewTerminal creates a Terminal prompter.
func NewTerminal(cfg TerminalConfig) *Terminal {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stderr
	}
	return &Terminal{stdin: cfg.Stdin, stdout: cfg.Stdout}
}

// Prompt asks for every field of spec in order. Ctrl+C yields ErrInterrupted
// and Ctrl+D yields io.EOF. Visible answers are trimmed, hidden ones are kept verbatim.
// A cancelled ctx closes the readline instance; the next round opens a new one.
func (t *Terminal) Prompt(ctx context.Context, spec Spec) (map[string]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rl, err := t.instance()
	if err != nil {
		return nil, err
	}

	// Unblock a pending read when the caller gives up.
	done := make(chan struct{})
	closed := make(chan bool, 1)
	go func() {
		select {
		case <-ctx.Done():
			_ = rl.Close()
			closed <- true
		case <-done:
			closed <- false
		}
	}()
	defer func() {
		close(done)
		if <-closed {
			t.rl = nil
		}
	}()

	answers := make(map[string]string, len(spec))
	for _, field := range spec {
		value, err := t.readField(rl, field)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				return nil, ErrInterrupted
			}
			return nil, err
		}
		answers[field.Name] = value
	}

	logging.Debug("Prompt", "Collected fields %s", strings.Join(spec.Names(), ","))
	return answers, nil
}

// Close releases the readline instance.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rl == nil {
		return nil
	}
	err := t.rl.Close()
	t.rl = nil
	return err
}

// instance returns the shared readline instance, creating it on first use.
// Callers must hold t.mu.
func (t *Terminal) instance() (*readline.Instance, error) {
	if t.rl != nil {
		return t.rl, nil
	}
	rl, err := readline.NewEx(&readline.Config{
		Stdin:                  readline.NewCancelableStdin(t.stdin),
		Stdout:                 t.stdout,
		InterruptPrompt:        "^C",
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	t.rl = rl
	return rl, nil
}

func (t *Terminal) readField(rl *readline.Instance, field Field) (string, error) {
	if field.Hidden {
		secret, err := rl.ReadPassword(field.Label())
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	rl.SetPrompt(field.Label())
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
