package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/funckeeper"
)

// NewDetailCommand creates the detail command.
func NewDetailCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail <record-id>",
		Short: "Show one record in full",
		Long: `Show a single execution record in full: captured source and
documentation, arguments, outcome, timing, dependencies and tags.

Example:
  funckeeper detail 42`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetail(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runDetail(cmd *cobra.Command, opts *RootOptions, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid record id %q", rawID), err)
	}

	k, err := openKeeper(cmd, opts)
	if err != nil {
		return err
	}
	defer k.Close()

	rec, err := k.GetRecordDetail(cmd.Context(), id)
	if funckeeper.IsNotFound(err) {
		return NewExitError(ExitFailure, fmt.Sprintf("record %d not found", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "load record", err)
	}

	f := formatter(cmd, opts)
	if f.JSON() {
		return f.Success(rec)
	}
	k.PrintRecordDetail(rec)
	return nil
}
