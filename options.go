package funckeeper

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Keeper at Open time.
type Option func(*Keeper)

// WithDBPath sets the SQLite database path. Defaults to "funckeeper.db"
// in the working directory.
func WithDBPath(path string) Option {
	return func(k *Keeper) {
		k.dbPath = path
	}
}

// WithLocation sets the timezone used when rendering and exporting
// timestamps. Storage is always UTC; this only affects display.
// Defaults to the local timezone.
func WithLocation(loc *time.Location) Option {
	return func(k *Keeper) {
		if loc != nil {
			k.loc = loc
		}
	}
}

// WithLogger sets the logger for the side channel that reports storage
// failures inside wrapped calls. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(k *Keeper) {
		if logger != nil {
			k.logger = logger
		}
	}
}

// WithOutput redirects the Print* methods. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(k *Keeper) {
		if w != nil {
			k.out = w
		}
	}
}

// WithMaxPayloadBytes caps serialized args, kwargs and return values.
// Larger payloads are truncated with a marker, never rejected.
func WithMaxPayloadBytes(n int) Option {
	return func(k *Keeper) {
		if n > 0 {
			k.maxPayload = n
		}
	}
}

// WithExportDir sets the directory ExportData writes to when called with
// an empty output dir. Defaults to "exports".
func WithExportDir(dir string) Option {
	return func(k *Keeper) {
		if dir != "" {
			k.exportDir = dir
		}
	}
}

// WrapOption configures a single Wrap call site.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	name string
	tags []string
}

// WithTags attaches tags to every record the wrapper produces. Tags are
// normalized: trimmed, deduplicated and sorted.
func WithTags(tags ...string) WrapOption {
	return func(c *wrapConfig) {
		c.tags = append(c.tags, tags...)
	}
}

// WithName overrides the function name recorded for the wrap site. Useful
// for closures, whose runtime names are generated.
func WithName(name string) WrapOption {
	return func(c *wrapConfig) {
		c.name = name
	}
}
