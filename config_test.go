package funckeeper

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "funckeeper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Full(t *testing.T) {
	path := writeConfig(t, `
db_path: /var/lib/funckeeper/calls.db
export_dir: /tmp/reports
max_payload_bytes: 4096
timezone: Asia/Tokyo
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/funckeeper/calls.db", cfg.DBPath)
	assert.Equal(t, "/tmp/reports", cfg.ExportDir)
	assert.Equal(t, 4096, cfg.MaxPayloadBytes)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 4)
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestLoadConfig_FixedOffset(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "utc_offset_hours: 9\n"))
	require.NoError(t, err)

	loc, err := cfg.location()
	require.NoError(t, err)
	assert.Equal(t, "UTC+9", loc.String())
}

func TestLoadConfig_FractionalOffset(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "utc_offset_hours: 5.5\n"))
	require.NoError(t, err)

	loc, err := cfg.location()
	require.NoError(t, err)
	assert.Equal(t, "UTC+5.5", loc.String())

	// 5.5 hours east of UTC.
	_, offset := time.Date(2024, 11, 27, 12, 0, 0, 0, time.UTC).In(loc).Zone()
	assert.Equal(t, 19800, offset)
}

func TestLoadConfig_UnknownTimezone(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "timezone: Mars/Olympus\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mars/Olympus")
}

func TestLoadConfig_OffsetOutOfRange(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "utc_offset_hours: 30\n"))
	require.Error(t, err)
}

func TestLoadConfig_UnknownKeyRejected(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "db_pathh: oops.db\n"))
	require.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestConfig_OpenWithConfigOptions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cfg.db")
	cfg := Config{DBPath: dbPath, MaxPayloadBytes: 128}

	opts, err := cfg.Options()
	require.NoError(t, err)

	k, err := Open(opts...)
	require.NoError(t, err)
	defer k.Close()

	assert.Equal(t, dbPath, k.dbPath)
	assert.Equal(t, 128, k.maxPayload)
}
