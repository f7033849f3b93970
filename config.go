package funckeeper

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration file surface. All fields are optional;
// the zero value yields the same defaults as Open without options.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// ExportDir is where ExportData writes when called with an empty
	// output dir.
	ExportDir string `yaml:"export_dir"`

	// MaxPayloadBytes caps serialized args and return values.
	MaxPayloadBytes int `yaml:"max_payload_bytes"`

	// Timezone is an IANA name for display timestamps, e.g. "Asia/Tokyo".
	Timezone string `yaml:"timezone"`

	// UTCOffsetHours is a fixed display offset, used only when Timezone
	// is empty. Fractional values are allowed (5.5 for IST).
	UTCOffsetHours *float64 `yaml:"utc_offset_hours"`
}

// LoadConfig reads and validates a YAML config file. Unknown keys are
// rejected so typos fail loudly instead of silently using defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := cfg.location(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the config into Open options.
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if c.DBPath != "" {
		opts = append(opts, WithDBPath(c.DBPath))
	}
	if c.ExportDir != "" {
		opts = append(opts, WithExportDir(c.ExportDir))
	}
	if c.MaxPayloadBytes > 0 {
		opts = append(opts, WithMaxPayloadBytes(c.MaxPayloadBytes))
	}
	loc, err := c.location()
	if err != nil {
		return nil, err
	}
	if loc != nil {
		opts = append(opts, WithLocation(loc))
	}
	return opts, nil
}

func (c Config) location() (*time.Location, error) {
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
		}
		return loc, nil
	}
	if c.UTCOffsetHours != nil {
		h := *c.UTCOffsetHours
		if h < -12 || h > 14 {
			return nil, fmt.Errorf("utc_offset_hours %g out of range", h)
		}
		return time.FixedZone(fmt.Sprintf("UTC%+g", h), int(h*3600)), nil
	}
	return nil, nil
}
