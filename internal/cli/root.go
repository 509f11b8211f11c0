// Package cli is the deskctl command tree: the staff console and intake kiosk
// working against the order store with a local fallback cache.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/racketdesk/stringdesk/internal/cache"
	"github.com/racketdesk/stringdesk/internal/clients/orders"
	"github.com/racketdesk/stringdesk/internal/desk"
	"github.com/racketdesk/stringdesk/internal/middlewares/logger"
)

// Opener builds the coordinator for a console run. The closer is released
// after the pending background updates have finished.
type Opener func(cfg ConsoleConfig) (*desk.Coordinator, io.Closer, error)

// RootOptions holds global flags and the coordinator shared by all commands.
type RootOptions struct {
	Config ConsoleConfig
	Output string

	open   Opener
	desk   *desk.Coordinator
	closer io.Closer
}

var ValidOutputs = []string{"text", "json", "yaml"}

// OpenDesk wires the HTTP order store client and the SQLite cache.
func OpenDesk(cfg ConsoleConfig) (*desk.Coordinator, io.Closer, error) {
	localCache, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	client := orders.NewOrdersClient(cfg.RemoteAddress)
	return desk.NewCoordinator(client, localCache, cfg.StoreID), localCache, nil
}

func NewRootCommand(cfg ConsoleConfig, open Opener) (*cobra.Command, *RootOptions) {
	opts := &RootOptions{Config: cfg, open: open}

	cmd := &cobra.Command{
		Use:           "deskctl",
		Short:         "Racket stringing desk console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsDesk(cmd) {
				return nil
			}
			if !slices.Contains(ValidOutputs, opts.Output) {
				return fmt.Errorf("invalid output %q: must be one of %v", opts.Output, ValidOutputs)
			}
			if opts.Config.StoreID <= 0 {
				return fmt.Errorf("invalid store id %d", opts.Config.StoreID)
			}
			if err := logger.Initialize(opts.Config.LogLevel); err != nil {
				return err
			}
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.Int64Var(&opts.Config.StoreID, "store", cfg.StoreID, "store id")
	flags.StringVar(&opts.Config.RemoteAddress, "remote", cfg.RemoteAddress, "order store API address")
	flags.StringVar(&opts.Config.CachePath, "cache", cfg.CachePath, "local cache file")
	flags.StringVar(&opts.Config.LogLevel, "log-level", cfg.LogLevel, "log level")
	flags.StringVarP(&opts.Output, "output", "o", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewIntakeCommand(opts))
	cmd.AddCommand(NewAdvanceCommand(opts))
	cmd.AddCommand(NewRevertCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewNotesCommand(opts))
	cmd.AddCommand(NewBulkCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd, opts
}

// skipsDesk reports commands that never touch orders: help and shell completion.
func skipsDesk(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func (opts *RootOptions) load(cmd *cobra.Command) error {
	coordinator, closer, err := opts.open(opts.Config)
	if err != nil {
		return err
	}
	opts.desk = coordinator
	opts.closer = closer
	coordinator.Load(cmd.Context(), opts.Config.StoreID)
	return nil
}

// Close waits for background order store updates and releases the cache.
func (opts *RootOptions) Close() error {
	if opts.desk != nil {
		opts.desk.Wait()
	}
	if opts.closer == nil {
		return nil
	}
	return opts.closer.Close()
}

// Execute runs the command tree with args and always releases resources.
func Execute(ctx context.Context, cmd *cobra.Command, opts *RootOptions, args []string) error {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, opts.Close())
}
