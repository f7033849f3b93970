package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/funckeeper"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Keyword string
	Tags    []string
	Status  string
	Since   string
	Until   string
	Limit   int
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search recorded calls",
		Long: `Search the call history. All supplied predicates combine with AND;
the keyword matches case-insensitively over function name, source code,
documentation and error message. Results come most recent first.

Example:
  funckeeper search --keyword timeout --tag network --status error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Keyword, "keyword", "", "substring to look for")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "match records carrying any of these tags (repeatable)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "success or error")
	cmd.Flags().StringVar(&opts.Since, "since", "", "earliest call date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.Until, "until", "", "latest call date, inclusive")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of results (0 = all)")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions) error {
	q, err := buildQuery(opts)
	if err != nil {
		return err
	}

	k, err := openKeeper(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer k.Close()

	results, err := k.Search(cmd.Context(), q)
	if err != nil {
		return WrapExitError(ExitCommandError, "search records", err)
	}

	f := formatter(cmd, opts.RootOptions)
	if f.JSON() {
		return f.Success(results)
	}
	k.PrintSearchResults(results)
	return nil
}

func buildQuery(opts *SearchOptions) (funckeeper.SearchQuery, error) {
	var q funckeeper.SearchQuery

	switch opts.Status {
	case "":
	case string(funckeeper.StatusSuccess), string(funckeeper.StatusError):
		q.Status = funckeeper.Status(opts.Status)
	default:
		return q, NewExitError(ExitCommandError, fmt.Sprintf("invalid --status %q: want success or error", opts.Status))
	}

	since, err := parseDate(opts.Since)
	if err != nil {
		return q, WrapExitError(ExitCommandError, "bad --since", err)
	}
	until, err := parseUntil(opts.Until)
	if err != nil {
		return q, WrapExitError(ExitCommandError, "bad --until", err)
	}

	q.Keyword = opts.Keyword
	q.Tags = opts.Tags
	q.Since = since
	q.Until = until
	q.Limit = opts.Limit
	return q, nil
}
