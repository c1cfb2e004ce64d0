package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration
// - Load() uses defaults when no config file exists
// - Load() reads .blobtags.yaml when present
// - PROCESS_ID populates the worker id; BLOBTAGS_* override the file
// - An explicit config file must exist
// - Validate() rejects bad prefixes and formats
// - ValidateBatch() requires a usable process id

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "binary", cfg.Input.Format)
	assert.Equal(t, "output-", cfg.Output.Prefix)
	assert.False(t, cfg.Output.Progress)
	assert.Empty(t, cfg.Worker.ProcessID)

	assert.NoError(t, Validate(cfg))
	assert.ErrorIs(t, ValidateBatch(cfg), ErrMissingProcessID)
}

func TestLoad_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Setenv(ProcessIDEnv, "")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_ReadsProcessIDFromEnvironment(t *testing.T) {
	t.Setenv(ProcessIDEnv, "worker-3")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, "worker-3", cfg.Worker.ProcessID)
	assert.NoError(t, ValidateBatch(cfg))
}

func TestLoad_ConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := `
input:
  format: json
output:
  prefix: tags-
  progress: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".blobtags.yaml"), []byte(content), 0644))

	t.Setenv(ProcessIDEnv, "")
	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Input.Format)
	assert.Equal(t, "tags-", cfg.Output.Prefix)
	assert.True(t, cfg.Output.Progress)

	t.Setenv("BLOBTAGS_OUTPUT_PREFIX", "env-")
	cfg, err = NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "env-", cfg.Output.Prefix)
}

func TestNewFileLoader(t *testing.T) {
	t.Setenv(ProcessIDEnv, "")

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker:\n  process_id: \"12\"\n"), 0644))

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "12", cfg.Worker.ProcessID)

	_, err = NewFileLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".blobtags.yaml"), []byte("output: [unclosed"), 0644))

	_, err := NewLoader(dir).Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".blobtags.yaml"), []byte("input:\n  format: msgpack\n"), 0644))

	_, err := NewLoader(dir).Load()
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty prefix", func(c *Config) { c.Output.Prefix = " " }, ErrInvalidPrefix},
		{"prefix with separator", func(c *Config) { c.Output.Prefix = "../out-" }, ErrInvalidPrefix},
		{"unknown format", func(c *Config) { c.Input.Format = "xml" }, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.wantErr)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Input.Format = "xml"
	cfg.Output.Prefix = ""

	err := ValidateBatch(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorIs(t, err, ErrInvalidPrefix)
	assert.ErrorIs(t, err, ErrMissingProcessID)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateBatch_ProcessID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id      string
		wantErr error
	}{
		{"", ErrMissingProcessID},
		{"   ", ErrMissingProcessID},
		{"a/b", ErrInvalidProcessID},
		{"..", ErrInvalidProcessID},
		{"42", nil},
		{"host-7.pid123", nil},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Worker.ProcessID = tt.id
		err := ValidateBatch(cfg)
		if tt.wantErr == nil {
			assert.NoError(t, err, tt.id)
		} else {
			assert.ErrorIs(t, err, tt.wantErr, tt.id)
		}
	}
}
