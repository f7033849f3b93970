package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/funckeeper"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <func-name>",
		Short: "Show a function's captured source and documentation",
		Long: `Show the wrap-time capture of a named function: source text,
documentation and dependency list, taken from its most recent record.

Example:
  funckeeper info fetchPage`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runInfo(cmd *cobra.Command, opts *RootOptions, funcName string) error {
	k, err := openKeeper(cmd, opts)
	if err != nil {
		return err
	}
	defer k.Close()

	f := formatter(cmd, opts)
	if f.JSON() {
		rec, err := k.GetFunctionInfo(cmd.Context(), funcName)
		if err != nil {
			return infoErr(funcName, err)
		}
		return f.Success(rec)
	}
	if err := k.PrintFunctionInfo(cmd.Context(), funcName); err != nil {
		return infoErr(funcName, err)
	}
	return nil
}

func infoErr(funcName string, err error) error {
	if funckeeper.IsNotFound(err) {
		return NewExitError(ExitFailure, fmt.Sprintf("no records for function %q", funcName))
	}
	return WrapExitError(ExitCommandError, "load function info", err)
}
