package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/funckeeper"
	"github.com/roach88/funckeeper/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*SearchOptions
	OutputDir  string
	FileFormat string
	RecordID   int64
	FuncName   string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{SearchOptions: &SearchOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "export <detail|statistics|list>",
		Short: "Write a report file",
		Long: `Write a report file to the output directory and print its path.

detail exports one record (--id required), statistics exports an
aggregate, list exports search results. Search predicate flags narrow
what statistics and list cover.

Example:
  funckeeper export list --tag math --out ./reports --file-format csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, export.Type(args[0]))
		},
	}

	cmd.Flags().StringVar(&opts.OutputDir, "out", "", "output directory (default from config, else \"exports\")")
	cmd.Flags().StringVar(&opts.FileFormat, "file-format", "html", "report format (html|csv|txt)")
	cmd.Flags().Int64Var(&opts.RecordID, "id", 0, "record id, for detail exports")
	cmd.Flags().StringVar(&opts.FuncName, "func", "", "restrict statistics to one function name")
	cmd.Flags().StringVar(&opts.Keyword, "keyword", "", "substring to look for")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "match records carrying any of these tags (repeatable)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "success or error")
	cmd.Flags().StringVar(&opts.Since, "since", "", "earliest call date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.Until, "until", "", "latest call date, inclusive")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of records (0 = all)")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions, typ export.Type) error {
	k, err := openKeeper(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer k.Close()

	data, err := exportData(cmd, k, opts, typ)
	if err != nil {
		return err
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = k.ExportDir()
	}
	gateway := export.New(export.Format(opts.FileFormat), k.Location())
	path, err := gateway.Export(data, typ, outDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "export", err)
	}

	f := formatter(cmd, opts.RootOptions)
	if f.JSON() {
		return f.Success(map[string]string{"path": path})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

func exportData(cmd *cobra.Command, k *funckeeper.Keeper, opts *ExportOptions, typ export.Type) (any, error) {
	switch typ {
	case export.TypeDetail:
		if opts.RecordID == 0 {
			return nil, NewExitError(ExitCommandError, "detail export requires --id")
		}
		rec, err := k.GetRecordDetail(cmd.Context(), opts.RecordID)
		if funckeeper.IsNotFound(err) {
			return nil, NewExitError(ExitFailure, fmt.Sprintf("record %d not found", opts.RecordID))
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "load record", err)
		}
		return rec, nil

	case export.TypeStatistics:
		q, err := buildQuery(opts.SearchOptions)
		if err != nil {
			return nil, err
		}
		agg, err := k.GetStatistics(cmd.Context(), funckeeper.StatsFilter{
			FuncName: opts.FuncName,
			Status:   q.Status,
			Tags:     q.Tags,
			Since:    q.Since,
			Until:    q.Until,
		})
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "compute statistics", err)
		}
		return agg, nil

	case export.TypeList:
		q, err := buildQuery(opts.SearchOptions)
		if err != nil {
			return nil, err
		}
		results, err := k.Search(cmd.Context(), q)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "search records", err)
		}
		return results, nil

	default:
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("unknown export type %q: want detail, statistics or list", typ))
	}
}
