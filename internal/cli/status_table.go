package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	authstrings "authloop/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// IsSecretKey reports whether the value under key must be masked: tokens,
// keys, secrets and passwords.
func IsSecretKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, "token") ||
		strings.HasSuffix(lower, "key") ||
		strings.Contains(lower, "secret") ||
		strings.Contains(lower, "password")
}

// MaskSecret keeps the first four characters of a secret.
func MaskSecret(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", 8)
}

// StatusView is what the status command renders for one record.
type StatusView struct {
	Name   string
	Path   string
	Record map[string]any
	Now    time.Time
}

// RenderStatus writes the record as a KEY/VALUE table followed by a summary
// line. Secret values are masked and expiry timestamps annotated.
func RenderStatus(w io.Writer, view StatusView) {
	if len(view.Record) == 0 {
		fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("○"), fmt.Sprintf("Not logged in (%s)", view.Name))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("KEY"),
		text.FgHiCyan.Sprint("VALUE"),
	})

	keys := make([]string, 0, len(view.Record))
	for key := range view.Record {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		t.AppendRow(table.Row{key, formatValue(key, view.Record[key], view.Now)})
	}
	t.Render()

	if view.Path != "" {
		fmt.Fprintf(w, "Stored in %s\n", view.Path)
	}
}

func formatValue(key string, value any, now time.Time) string {
	s := fmt.Sprintf("%v", value)
	if IsSecretKey(key) {
		return MaskSecret(s)
	}
	if key == "expiry" {
		return formatExpiry(s, now)
	}
	return authstrings.Truncate(s, authstrings.DefaultValueMaxLen)
}

func formatExpiry(raw string, now time.Time) string {
	expiry, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	remaining := expiry.Sub(now).Round(time.Second)
	if remaining <= 0 {
		return fmt.Sprintf("%s (%s)", raw, text.FgRed.Sprint("expired"))
	}
	return fmt.Sprintf("%s (in %s)", raw, remaining)
}
