package cmd

import (
	"context"
	"fmt"
	"time"

	"authloop/internal/cli"
	"authloop/internal/store"
	"authloop/pkg/logging"

	"github.com/spf13/cobra"
)

func newStatusCmd(flags *cli.CommandFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored authorization",
		Long: `Show the keys of the stored authorization record. Token values are masked.

With --watch the table is printed again whenever the record file changes,
for example when another authloop process logs in. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, flags, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when the record changes")
	return cmd
}

func runStatus(cmd *cobra.Command, flags *cli.CommandFlags, watch bool) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	fileStore, err := store.NewFileStore(store.FileStoreConfig{Name: cfg.Name, Dir: cfg.StoreDir})
	if err != nil {
		return err
	}

	render := func(ctx context.Context) error {
		record, err := fileStore.All(ctx)
		if err != nil {
			return err
		}
		cli.RenderStatus(cmd.OutOrStdout(), cli.StatusView{
			Name:   cfg.Name,
			Path:   fileStore.Path(),
			Record: record,
			Now:    time.Now(),
		})
		return nil
	}

	ctx := cmd.Context()
	if err := render(ctx); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	changes := make(chan struct{}, 1)
	watcher := store.NewWatcher(fileStore, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			fmt.Fprintln(cmd.OutOrStdout())
			if err := render(ctx); err != nil {
				logging.Warn("Status", "Failed to read %s: %v", fileStore.Path(), err)
			}
		}
	}
}
