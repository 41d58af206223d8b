package cmd

import (
	"bytes"
	"errors"

	"authloop/internal/authorizer"
	"authloop/internal/cli"
	"authloop/internal/client"
	"authloop/pkg/logging"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelRequests bounds concurrent fetches of the get command.
const DefaultParallelRequests = 4

func newGetCmd(flags *cli.CommandFlags) *cobra.Command {
	var creds cli.CredentialFlags
	var useTransport bool
	var parallel int

	cmd := &cobra.Command{
		Use:   "get URL...",
		Short: "Fetch URLs with the stored authorization",
		Long: `Fetch one or more URLs with the stored token and print the bodies in
argument order.

A 401 or 403 response, or a missing or expired token, starts a login and the
request is sent again. Concurrent requests that need a login share one prompt.

Examples:
  authloop get https://api.example.com/me
  authloop get --transport https://api.example.com/a https://api.example.com/b`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, flags, &creds, useTransport, parallel, args)
		},
	}

	cli.RegisterCredentialFlags(cmd, &creds)
	cmd.Flags().BoolVar(&useTransport, "transport", false, "Inject the token through an oauth2 transport instead of per request")
	cmd.Flags().IntVar(&parallel, "parallel", DefaultParallelRequests, "Maximum number of concurrent requests")
	return cmd
}

func runGet(cmd *cobra.Command, flags *cli.CommandFlags, creds *cli.CredentialFlags, useTransport bool, parallel int, urls []string) error {
	s, err := newSession(cmd, flags, creds)
	if err != nil {
		return err
	}
	defer s.close()

	fetcherCfg := client.FetcherConfig{UserAgent: "authloop/" + GetVersion()}
	providerCfg := authorizer.ProviderConfig{
		OnError: func(err error) {
			logging.Debug("Get", "Request failed: %v", err)
		},
	}
	if useTransport {
		holder := client.NewTokenHolder()
		fetcherCfg.HTTPClient = holder.Client(nil)
		providerCfg.Holder = holder
	}

	provider, err := s.controller.CreateProvider(providerCfg)
	if err != nil {
		return err
	}
	get := authorizer.Wrap(provider, client.NewFetcher(fetcherCfg).Get)

	bodies := make([][]byte, len(urls))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(parallel, 1))
	for i, url := range urls {
		g.Go(func() error {
			body, err := get(ctx, url)
			if err != nil {
				return classifyGetError(s.cfg.Name, url, err)
			}
			bodies[i] = body
			return nil
		})
	}
	err = g.Wait()

	out := cmd.OutOrStdout()
	for _, body := range bodies {
		if body == nil {
			continue
		}
		_, _ = out.Write(body)
		if !bytes.HasSuffix(body, []byte("\n")) {
			_, _ = out.Write([]byte("\n"))
		}
	}
	return err
}

// classifyGetError checks the authorization error types first: an unreachable
// token endpoint is a failed login, not a connection error.
func classifyGetError(name, url string, err error) error {
	classified := cli.ClassifyAuthError(name, err)
	var authRequired *cli.AuthRequiredError
	var authFailed *cli.AuthFailedError
	if errors.As(classified, &authRequired) || errors.As(classified, &authFailed) {
		return classified
	}
	if connErr := cli.ClassifyConnectionError(err, url); connErr != nil {
		return connErr
	}
	return err
}
