package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/funckeeper"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	FuncName string
	Status   string
	Tags     []string
	Since    string
	Until    string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate call statistics",
		Long: `Aggregate the recorded calls: counts, success rate, duration extremes
and error type distribution. Filters narrow the aggregation.

Example:
  funckeeper stats --func fetchPage --since 2024-11-01`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FuncName, "func", "", "restrict to one function name")
	cmd.Flags().StringVar(&opts.Status, "status", "", "restrict to success or error records")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "restrict to records carrying any of these tags (repeatable)")
	cmd.Flags().StringVar(&opts.Since, "since", "", "earliest call date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.Until, "until", "", "latest call date, inclusive")

	return cmd
}

func runStats(cmd *cobra.Command, opts *StatsOptions) error {
	switch opts.Status {
	case "", string(funckeeper.StatusSuccess), string(funckeeper.StatusError):
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --status %q: want success or error", opts.Status))
	}
	since, err := parseDate(opts.Since)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --since", err)
	}
	until, err := parseUntil(opts.Until)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --until", err)
	}

	k, err := openKeeper(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer k.Close()

	agg, err := k.GetStatistics(cmd.Context(), funckeeper.StatsFilter{
		FuncName: opts.FuncName,
		Status:   funckeeper.Status(opts.Status),
		Tags:     opts.Tags,
		Since:    since,
		Until:    until,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "compute statistics", err)
	}

	f := formatter(cmd, opts.RootOptions)
	if f.JSON() {
		return f.Success(agg)
	}
	k.PrintStatistics(agg)
	return nil
}

// NewErrorsCommand creates the errors command: per-error-type breakdown.
func NewErrorsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "errors",
		Short:         "Error type breakdown",
		Long:          "Count and average duration per error type, over all error records.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := openKeeper(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer k.Close()

			breakdown, err := k.GetErrorStatistics(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "compute error statistics", err)
			}

			f := formatter(cmd, rootOpts)
			if f.JSON() {
				return f.Success(breakdown)
			}
			k.PrintErrorStatistics(breakdown)
			return nil
		},
	}
	return cmd
}
