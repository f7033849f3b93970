package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/funckeeper"
)

const defaultDBPath = "funckeeper.db"

// openKeeper resolves the database path from flags and config and opens it.
// The CLI only ever inspects an existing history, so a missing database is
// a command error rather than a reason to create an empty one.
func openKeeper(cmd *cobra.Command, opts *RootOptions) (*funckeeper.Keeper, error) {
	var kopts []funckeeper.Option
	path := defaultDBPath

	if opts.ConfigPath != "" {
		cfg, err := funckeeper.LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "load config", err)
		}
		kopts, err = cfg.Options()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "load config", err)
		}
		if cfg.DBPath != "" {
			path = cfg.DBPath
		}
	}
	if opts.DBPath != "" {
		path = opts.DBPath
	}

	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("record database %s not found", path), err)
	}

	kopts = append(kopts,
		funckeeper.WithDBPath(path),
		funckeeper.WithOutput(cmd.OutOrStdout()),
	)
	k, err := funckeeper.Open(kopts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open record database", err)
	}
	return k, nil
}

func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// parseUntil widens a bare date to the end of that day, so --until covers
// the named day inclusively.
func parseUntil(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return parseDate(s)
}
