package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"authloop/internal/config"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	originalVersion := GetVersion()
	defer SetVersion(originalVersion)

	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version %s, got %s", testVersion, rootCmd.Version)
	}
	if GetVersion() != testVersion {
		t.Errorf("Expected GetVersion() to return %s, got %s", testVersion, GetVersion())
	}
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	if root.Use != "authloop" {
		t.Errorf("Expected Use to be 'authloop', got %s", root.Use)
	}
	if root.Short == "" {
		t.Error("Expected Short description to be set")
	}
	if !root.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
	if !root.SilenceErrors {
		t.Error("Expected SilenceErrors to be true")
	}

	for _, name := range []string{"quiet", "debug", "config-path", "store-dir"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestSubcommands(t *testing.T) {
	root := newRootCmd()

	expected := []string{"version", "login", "logout", "status", "get"}
	commands := make(map[string]bool)
	for _, cmd := range root.Commands() {
		commands[cmd.Name()] = true
	}

	for _, name := range expected {
		if !commands[name] {
			t.Errorf("Expected subcommand %s not found", name)
		}
	}
}

func TestSubcommandFlags(t *testing.T) {
	root := newRootCmd()

	tests := []struct {
		command string
		flags   []string
	}{
		{"login", []string{"username", "password", "if-needed"}},
		{"logout", []string{"username", "password"}},
		{"status", []string{"watch"}},
		{"get", []string{"username", "password", "transport", "parallel"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cmd, _, err := root.Find([]string{tt.command})
			if err != nil {
				t.Fatalf("Find(%s) failed: %v", tt.command, err)
			}
			for _, name := range tt.flags {
				if cmd.Flags().Lookup(name) == nil {
					t.Errorf("Expected flag --%s on %s", name, tt.command)
				}
			}
		})
	}
}

func TestVersionTemplate(t *testing.T) {
	root := newRootCmd()
	root.Version = "1.2.3-test"
	root.SetVersionTemplate(`{{printf "authloop version %s\n" .Version}}`)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := buf.String(); got != "authloop version 1.2.3-test\n" {
		t.Errorf("Expected version template output, got %q", got)
	}
}

func TestRootCommandHelp(t *testing.T) {
	root := newRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute with --help failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"authloop", "login", "logout", "status", "get"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected help output to contain %q", want)
		}
	}
}

func TestReportError(t *testing.T) {
	cfgErr := config.NewConfigurationError("/etc/authloop/config.yaml", "validation", "invalid configuration", errors.New("token_url is required"))
	cfgErr.Suggestions = []string{"Check the field names and values in config.yaml"}

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "plain error",
			err:      errors.New("request failed"),
			expected: "Error: request failed\n",
		},
		{
			name: "configuration error",
			err:  cfgErr,
			expected: "Configuration Error in config.yaml\n" +
				"  File: /etc/authloop/config.yaml\n" +
				"  Type: validation\n" +
				"  Error: invalid configuration\n" +
				"  Details: token_url is required\n" +
				"  Suggestions:\n" +
				"    - Check the field names and values in config.yaml\n",
		},
		{
			name:     "wrapped configuration error",
			err:      fmt.Errorf("login: %w", config.NewConfigurationError("/tmp/config.yaml", "parse", "malformed configuration file", nil)),
			expected: "Configuration Error in config.yaml\n  File: /tmp/config.yaml\n  Type: parse\n  Error: malformed configuration file\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			if buf.String() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, buf.String())
			}
		})
	}
}
