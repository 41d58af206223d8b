package cmd

import (
	"io"

	"authloop/internal/authorizer"
	"authloop/internal/backend"
	"authloop/internal/cli"
	"authloop/internal/config"
	"authloop/internal/prompt"
	"authloop/pkg/logging"

	"github.com/spf13/cobra"
)

// session bundles what the login, logout and get commands share.
type session struct {
	cfg        config.AppConfig
	controller *authorizer.Controller
	progress   *cli.Progress
	terminal   *prompt.Terminal
	printer    cli.Printer
}

// loadConfig reads the configuration, applies flag overrides and sets up logging.
func loadConfig(cmd *cobra.Command, flags *cli.CommandFlags) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return config.AppConfig{}, err
	}
	if flags.StoreDir != "" {
		cfg.StoreDir = flags.StoreDir
	}

	level, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		level = logging.LevelWarn
	}
	if flags.Quiet {
		level = logging.LevelError
	}
	if flags.Debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, cmd.ErrOrStderr())

	return cfg, nil
}

// newSession builds the OAuth2 backend and the authorization controller.
// creds, when both values are set, replace the interactive prompt.
func newSession(cmd *cobra.Command, flags *cli.CommandFlags, creds *cli.CredentialFlags) (*session, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateBackend(); err != nil {
		return nil, err
	}

	oauth, err := backend.New(backend.Config{
		TokenURL:     cfg.TokenURL,
		RevokeURL:    cfg.RevokeURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
	})
	if err != nil {
		return nil, err
	}

	var prompter prompt.Prompter
	var terminal *prompt.Terminal
	maxRejections := 0
	if creds != nil && creds.NonInteractive() {
		// the same answers would be rejected again
		prompter = prompt.Static(creds.Answers())
		maxRejections = 1
	} else {
		terminalCfg := prompt.TerminalConfig{Stdout: cmd.ErrOrStderr()}
		if rc, ok := cmd.InOrStdin().(io.ReadCloser); ok {
			terminalCfg.Stdin = rc
		}
		terminal = prompt.NewTerminal(terminalCfg)
		prompter = terminal
	}

	progress := cli.NewProgress(cmd.ErrOrStderr(), flags.Quiet)
	controller, err := authorizer.New(authorizer.Config{
		Name:          cfg.Name,
		Acquire:       oauth.Acquire,
		Revoke:        oauth.Revoke,
		Prompt:        cfg.Prompt,
		Prompter:      prompt.Coalesce(prompter),
		StoreDir:      cfg.StoreDir,
		MaxRejections: maxRejections,
		OnStateChange: progress.Observe,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:        cfg,
		controller: controller,
		progress:   progress,
		terminal:   terminal,
		printer:    cli.Printer{Out: cmd.OutOrStdout(), Quiet: flags.Quiet},
	}, nil
}

// close stops the spinner and releases the terminal.
func (s *session) close() {
	s.progress.Stop()
	if s.terminal != nil {
		_ = s.terminal.Close()
	}
}
