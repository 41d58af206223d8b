package cli

import (
	"authloop/internal/config"

	"github.com/spf13/cobra"
)

// CommandFlags holds the flag values shared by every authloop command.
type CommandFlags struct {
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// Debug enables debug logging
	Debug bool
	// ConfigPath specifies a custom configuration directory path
	ConfigPath string
	// StoreDir overrides the directory holding authorization records
	StoreDir string
}

// RegisterCommonFlags registers the persistent flags on the root command.
//
// The registered flags are:
//   - --quiet/-q: Suppress non-essential output
//   - --debug: Enable debug logging
//   - --config-path: Configuration directory
//   - --store-dir: Directory holding authorization records
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.PersistentFlags().StringVar(&flags.StoreDir, "store-dir", "", "Directory holding authorization records (default: ~/.config)")
}

// CredentialFlags holds answers given on the command line instead of the
// interactive prompt.
type CredentialFlags struct {
	Username string
	Password string
}

// RegisterCredentialFlags registers --username and --password on cmd.
func RegisterCredentialFlags(cmd *cobra.Command, flags *CredentialFlags) {
	cmd.Flags().StringVar(&flags.Username, "username", "", "Username (skips the interactive prompt when --password is also set)")
	cmd.Flags().StringVar(&flags.Password, "password", "", "Password (skips the interactive prompt when --username is also set)")
}

// NonInteractive reports whether both answers were given.
func (f CredentialFlags) NonInteractive() bool {
	return f.Username != "" && f.Password != ""
}

// Answers returns the flag values keyed by prompt field name.
func (f CredentialFlags) Answers() map[string]string {
	return map[string]string{"username": f.Username, "password": f.Password}
}
