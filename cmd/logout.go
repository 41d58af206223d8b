package cmd

import (
	"authloop/internal/cli"

	"github.com/spf13/cobra"
)

func newLogoutCmd(flags *cli.CommandFlags) *cobra.Command {
	var creds cli.CredentialFlags

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored token",
		Long: `Prompt for credentials, revoke the stored token at the authorization
server and delete it from the local record.

When no revoke_url is configured, or nothing is stored, the token is only
forgotten locally.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd, flags, &creds)
		},
	}

	cli.RegisterCredentialFlags(cmd, &creds)
	return cmd
}

func runLogout(cmd *cobra.Command, flags *cli.CommandFlags, creds *cli.CredentialFlags) error {
	s, err := newSession(cmd, flags, creds)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.controller.Revoke(cmd.Context()); err != nil {
		return cli.ClassifyAuthError(s.cfg.Name, err)
	}

	s.printer.Success("Logged out (%s)", s.cfg.Name)
	return nil
}
