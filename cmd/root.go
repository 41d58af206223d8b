package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"authloop/internal/cli"
	"authloop/internal/config"

	"github.com/spf13/cobra"
)

// appVersion is set by SetVersion and read by the commands.
var appVersion string

// rootCmd represents the base command for the authloop application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	root := &cobra.Command{
		Use:   "authloop",
		Short: "Log in once, then run authenticated requests that re-login when needed",
		Long: `authloop keeps an OAuth2 token for an API on disk and uses it for requests.

When a request is refused for lack of authorization, authloop asks for your
username and password, obtains a new token from the authorization server,
stores it and runs the request again.

Examples:
  authloop login                        # Prompt for credentials and store a token
  authloop get https://api.example.com/me
  authloop status                       # Show the stored authorization
  authloop logout                       # Revoke and forget the token`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
		// SilenceErrors leaves error output to Execute.
		SilenceErrors: true,
	}

	cli.RegisterCommonFlags(root, flags)

	root.AddCommand(newVersionCmd())
	root.AddCommand(newLoginCmd(flags))
	root.AddCommand(newLogoutCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newGetCmd(flags))

	return root
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return appVersion
}

// Execute is the main entry point for the CLI application.
// It runs the root command and exits with a code derived from the error type.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "authloop version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		os.Exit(cli.ExitCode(err))
	}
}

// reportError prints the final command error. Configuration errors are
// printed with their file, type and suggestions.
func reportError(w io.Writer, err error) {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(w, cfgErr.DetailedError())
		return
	}
	fmt.Fprintln(w, cli.FormatError(err))
}
