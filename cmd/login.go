package cmd

import (
	"context"
	"errors"

	"authloop/internal/authorizer"
	"authloop/internal/backend"
	"authloop/internal/cli"

	"github.com/spf13/cobra"
)

var errNoAccessToken = errors.New("authorization server returned no access token")

func newLoginCmd(flags *cli.CommandFlags) *cobra.Command {
	var creds cli.CredentialFlags
	var ifNeeded bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain and store an authorization token",
		Long: `Prompt for credentials and exchange them for an OAuth2 token.

Rejected credentials are asked for again. The token is stored in
<store-dir>/<name>/auth.yaml and used by later commands.

Examples:
  authloop login                               # Interactive prompt
  authloop login --if-needed                   # Only prompt without a valid token
  authloop login --username u --password p     # Non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, flags, &creds, ifNeeded)
		},
	}

	cli.RegisterCredentialFlags(cmd, &creds)
	cmd.Flags().BoolVar(&ifNeeded, "if-needed", false, "Only prompt when no valid token is stored")
	return cmd
}

func runLogin(cmd *cobra.Command, flags *cli.CommandFlags, creds *cli.CredentialFlags, ifNeeded bool) error {
	s, err := newSession(cmd, flags, creds)
	if err != nil {
		return err
	}
	defer s.close()

	attempts := 0
	err = s.controller.Ensure(cmd.Context(), func(ctx context.Context, snapshot authorizer.Record) error {
		attempts++
		token, ok := backend.TokenFromRecord(snapshot)
		if attempts == 1 {
			if !ifNeeded || !ok || !token.Valid() {
				return authorizer.ErrAuthRequired
			}
			return nil
		}
		if !ok {
			return errNoAccessToken
		}
		return nil
	})
	if err != nil {
		return cli.ClassifyAuthError(s.cfg.Name, err)
	}

	if attempts == 1 {
		s.printer.Success("Already logged in (%s)", s.cfg.Name)
		return nil
	}
	s.printer.Success("Logged in (%s)", s.cfg.Name)
	return nil
}
