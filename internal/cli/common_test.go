package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "formats simple error",
			err:      assert.AnError,
			expected: "Error: assert.AnError general error for testing",
		},
		{
			name:     "handles nil error",
			err:      nil,
			expected: "Error: <nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormatSuccess(t *testing.T) {
	assert.Equal(t, "✓ Logged in", FormatSuccess("Logged in"))
	assert.Equal(t, "✓ ", FormatSuccess(""))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{Out: &buf}
	p.Success("Logged in as %s", "u")
	assert.Equal(t, "✓ Logged in as u\n", buf.String())

	buf.Reset()
	quiet := Printer{Out: &buf, Quiet: true}
	quiet.Success("hidden")
	assert.Empty(t, buf.String())
}
