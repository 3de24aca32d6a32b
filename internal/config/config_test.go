package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
)

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	// Given: no configuration file exists
	cfg := NewConfig()

	// Then: all defaults should be applied
	require.NotNil(t, cfg)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "evidence", cfg.Run.EvidenceRootName)
	assert.Equal(t, runtime.NumCPU(), cfg.Run.Workers)
	assert.Equal(t, int64(0), cfg.Run.MaxBytesForHash)
	assert.Equal(t, 1024*1024, cfg.Run.HashChunkSize)
	assert.Equal(t, VaultPathsRelative, cfg.Run.VaultPaths)
	assert.Empty(t, cfg.Run.Exclude)
	assert.Equal(t, 1_000_000, cfg.Extraction.MaxChars)
	assert.True(t, cfg.Extraction.PDF)
	assert.Equal(t, 256, cfg.Cache.Size)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// Given: a config file overriding a subset of keys
	dir := t.TempDir()
	path := filepath.Join(dir, "evidex.yaml")
	yaml := `
run:
  evidence_root_name: vault
  workers: 3
  vault_paths: absolute
  exclude: ["*.tmp"]
extraction:
  pdf: false
entities:
  aliases:
    - canonical: Acme Towing
      aliases: [Acme, Acme Tow]
  stopwords: [Draft]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	// When: loading it
	cfg, err := Load(path)

	// Then: listed keys change, the rest keep defaults
	require.NoError(t, err)
	assert.Equal(t, "vault", cfg.Run.EvidenceRootName)
	assert.Equal(t, 3, cfg.Run.Workers)
	assert.Equal(t, VaultPathsAbsolute, cfg.Run.VaultPaths)
	assert.Equal(t, []string{"*.tmp"}, cfg.Run.Exclude)
	assert.False(t, cfg.Extraction.PDF)
	assert.Equal(t, 1_000_000, cfg.Extraction.MaxChars)
	require.Len(t, cfg.Entities.Aliases, 1)
	assert.Equal(t, "Acme Towing", cfg.Entities.Aliases[0].Canonical)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Equal(t, evxerrors.ErrCodeConfigNotFound, evxerrors.GetCode(err))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run: [unclosed"), 0644))

	_, err := Load(path)

	require.Error(t, err)
	assert.Equal(t, evxerrors.ErrCodeConfigInvalid, evxerrors.GetCode(err))
}

func TestLoad_EnvOverrides(t *testing.T) {
	// Given: environment overrides
	t.Setenv("EVIDEX_WORKERS", "7")
	t.Setenv("EVIDEX_MAX_BYTES_FOR_HASH", "1048576")
	t.Setenv("EVIDEX_EVIDENCE_ROOT_NAME", "case-42")
	t.Setenv("EVIDEX_PDF_EXTRACTION", "false")
	t.Setenv("EVIDEX_MAX_CHARS", "5000")
	t.Setenv("EVIDEX_LOG_LEVEL", "DEBUG")

	// When: loading with no config file
	cfg := NewConfig()
	cfg.applyEnvOverrides()

	// Then: env values win
	assert.Equal(t, 7, cfg.Run.Workers)
	assert.Equal(t, int64(1048576), cfg.Run.MaxBytesForHash)
	assert.Equal(t, "case-42", cfg.Run.EvidenceRootName)
	assert.False(t, cfg.Extraction.PDF)
	assert.Equal(t, 5000, cfg.Extraction.MaxChars)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides_IgnoresGarbage(t *testing.T) {
	t.Setenv("EVIDEX_WORKERS", "lots")
	t.Setenv("EVIDEX_PDF_EXTRACTION", "maybe")

	cfg := NewConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, runtime.NumCPU(), cfg.Run.Workers)
	assert.True(t, cfg.Extraction.PDF)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero workers", func(c *Config) { c.Run.Workers = 0 }, "Workers"},
		{"negative hash ceiling", func(c *Config) { c.Run.MaxBytesForHash = -1 }, "MaxBytesForHash"},
		{"empty label", func(c *Config) { c.Run.EvidenceRootName = "" }, "EvidenceRootName"},
		{"bad vault style", func(c *Config) { c.Run.VaultPaths = "mixed" }, "VaultPaths"},
		{"zero max chars", func(c *Config) { c.Extraction.MaxChars = 0 }, "MaxChars"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "Level"},
		{"alias without canonical", func(c *Config) {
			c.Entities.Aliases = []AliasEntry{{Aliases: []string{"x"}}}
		}, "Canonical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Equal(t, evxerrors.ErrCodeConfigInvalid, evxerrors.GetCode(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := NewConfig()
	cfg.Run.EvidenceRootName = "exported"

	require.NoError(t, cfg.WriteYAML(path))
	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "exported", loaded.Run.EvidenceRootName)
}
