package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/racketdesk/stringdesk/internal/export"
)

type ExportOptions struct {
	*RootOptions
	Format string
	Out    string
	Status string
	Search string
}

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the store's orders to a file",
		Long: `Export the store's orders, optionally filtered.

Without --out the file is named racket-orders-YYYY-MM-DD.<format>;
use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, time.Now())
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", string(export.FormatCSV), "export format (csv|json|yaml)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output file, - for stdout")
	cmd.Flags().StringVar(&opts.Status, "status", "all", "status filter, or all")
	cmd.Flags().StringVar(&opts.Search, "search", "", "match customer name, racket brand or model")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions, now time.Time) error {
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	filter, err := newFilter(opts.Status, opts.Search)
	if err != nil {
		return err
	}
	orders := opts.desk.Find(filter)

	if opts.Out == "-" {
		return export.Write(cmd.OutOrStdout(), format, orders)
	}

	path := opts.Out
	if path == "" {
		path = export.FileName(format, now)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(file, format, orders); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d orders to %s\n", len(orders), path)
	return nil
}
