package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/racketdesk/stringdesk/internal/customerror"
	"github.com/racketdesk/stringdesk/internal/handlers/schemas"
	"github.com/racketdesk/stringdesk/internal/lifecycle"
	"github.com/racketdesk/stringdesk/internal/models"
)

type ListOptions struct {
	*RootOptions
	Status string
	Search string
	Counts bool
}

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the store's orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := newFilter(opts.Status, opts.Search)
			if err != nil {
				return err
			}
			all := opts.desk.Orders()
			if opts.Counts {
				printCounts(cmd.OutOrStdout(), lifecycle.CountByStatus(all))
			}
			return printOrders(cmd.OutOrStdout(), opts.Output, filter.Apply(all))
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", lifecycle.AllStatuses, "status filter, or all")
	cmd.Flags().StringVar(&opts.Search, "search", "", "match customer name, racket brand or model")
	cmd.Flags().BoolVar(&opts.Counts, "counts", false, "print the number of orders per status")

	return cmd
}

func newFilter(status, search string) (lifecycle.Filter, error) {
	if status == "" || status == lifecycle.AllStatuses {
		return lifecycle.Filter{Status: lifecycle.AllStatuses, Search: search}, nil
	}
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return lifecycle.Filter{}, err
	}
	return lifecycle.Filter{Status: string(parsed), Search: search}, nil
}

type IntakeOptions struct {
	*RootOptions
	CustomerName  string
	ContactNumber string
	Email         string
	RacketBrand   string
	RacketModel   string
	StringType    string
	ServiceType   string
	Notes         string
}

func NewIntakeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IntakeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Submit a new stringing order",
		Long: `Submit a new stringing order for the active store.

Example:
  deskctl intake --customer "Jane Doe" --contact 555-0100 --brand Wilson --model "Pro Staff 97"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, origin, err := opts.desk.Create(cmd.Context(), opts.Config.StoreID, opts.request())
			if err != nil {
				printValidation(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", origin.Acknowledgement(), order.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.CustomerName, "customer", "", "customer full name")
	flags.StringVar(&opts.ContactNumber, "contact", "", "customer contact number")
	flags.StringVar(&opts.Email, "email", "", "customer email")
	flags.StringVar(&opts.RacketBrand, "brand", "", "racket brand")
	flags.StringVar(&opts.RacketModel, "model", "", "racket model")
	flags.StringVar(&opts.StringType, "string", "", "string type")
	flags.StringVar(&opts.ServiceType, "service", "", "service type (defaults to standard)")
	flags.StringVar(&opts.Notes, "notes", "", "additional notes")

	return cmd
}

func (opts *IntakeOptions) request() schemas.CreateOrderRequest {
	return schemas.CreateOrderRequest{
		StoreID:         opts.Config.StoreID,
		CustomerName:    opts.CustomerName,
		ContactNumber:   opts.ContactNumber,
		Email:           optional(opts.Email),
		RacketBrand:     opts.RacketBrand,
		RacketModel:     opts.RacketModel,
		StringType:      optional(opts.StringType),
		ServiceType:     optional(opts.ServiceType),
		AdditionalNotes: optional(opts.Notes),
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func printValidation(w io.Writer, err error) {
	var validationErr *customerror.ValidationError
	if !errors.As(err, &validationErr) {
		return
	}
	fields := make([]string, 0, len(validationErr.Fields))
	for field := range validationErr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(w, "  %s: %s\n", field, validationErr.Fields[field])
	}
}

func NewAdvanceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <order-id>",
		Short: "Move an order one status forward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOrder(rootOpts, args[0]); err != nil {
				return err
			}
			return printOrder(cmd, rootOpts, rootOpts.desk.Advance(cmd.Context(), args[0]), args[0])
		},
	}
}

func NewRevertCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revert <order-id>",
		Short: "Move an order one status back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOrder(rootOpts, args[0]); err != nil {
				return err
			}
			return printOrder(cmd, rootOpts, rootOpts.desk.Revert(cmd.Context(), args[0]), args[0])
		},
	}
}

func NewNotesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <order-id> <text>",
		Short: "Replace the additional notes of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOrder(rootOpts, args[0]); err != nil {
				return err
			}
			return printOrder(cmd, rootOpts, rootOpts.desk.UpdateNotes(cmd.Context(), args[0], args[1]), args[0])
		},
	}
}

func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <order-id>",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rootOpts.desk.Delete(cmd.Context(), rootOpts.Config.StoreID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted order %s\n", args[0])
			return nil
		},
	}
}

func NewBulkCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply one action to a selection of orders",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "advance <order-id>...",
		Short: "Advance every selected order that is not picked up",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSelection(cmd, rootOpts, rootOpts.desk.BulkAdvance(cmd.Context(), args), args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "revert <order-id>...",
		Short: "Revert every selected order that is not pending",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSelection(cmd, rootOpts, rootOpts.desk.BulkRevert(cmd.Context(), args), args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <order-id>...",
		Short: "Delete every selected order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remaining := rootOpts.desk.BulkDelete(cmd.Context(), args)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d selected orders, %d remaining\n", len(args), len(remaining))
			return nil
		},
	})

	return cmd
}

func requireOrder(opts *RootOptions, id string) error {
	for _, order := range opts.desk.Orders() {
		if order.ID == id {
			return nil
		}
	}
	return fmt.Errorf("order %s not found in store %d", id, opts.Config.StoreID)
}

func printOrder(cmd *cobra.Command, opts *RootOptions, all []models.Order, id string) error {
	return printSelection(cmd, opts, all, []string{id})
}

func printSelection(cmd *cobra.Command, opts *RootOptions, all []models.Order, ids []string) error {
	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}
	var matched []models.Order
	for _, order := range all {
		if _, ok := selected[order.ID]; ok {
			matched = append(matched, order)
		}
	}
	return printOrders(cmd.OutOrStdout(), opts.Output, matched)
}
