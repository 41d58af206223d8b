package cli

import (
	"fmt"
	"io"
)

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return fmt.Sprintf("✓ %s", msg)
}

// Printer writes command output, dropping non-essential lines in quiet mode.
type Printer struct {
	Out   io.Writer
	Quiet bool
}

// Success prints a success line unless quiet.
func (p Printer) Success(format string, args ...any) {
	if p.Quiet {
		return
	}
	fmt.Fprintln(p.Out, FormatSuccess(fmt.Sprintf(format, args...)))
}
