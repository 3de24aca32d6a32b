package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
)

// FileName is the project configuration file looked up in the working
// directory when --config is not given.
const FileName = ".evidex.yaml"

// Vault path styles.
const (
	VaultPathsRelative = "relative"
	VaultPathsAbsolute = "absolute"
)

// Config represents the complete evidex configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Run        RunConfig        `yaml:"run" json:"run"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction"`
	Cache      CacheConfig      `yaml:"cache" json:"cache"`
	Entities   EntitiesConfig   `yaml:"entities" json:"entities"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// RunConfig configures traversal, hashing and manifest labelling.
type RunConfig struct {
	// EvidenceRootName labels vault manifest paths.
	EvidenceRootName string `yaml:"evidence_root_name" json:"evidence_root_name" validate:"required"`
	// Workers bounds the per-file worker pool.
	Workers int `yaml:"workers" json:"workers" validate:"gte=1,lte=256"`
	// MaxBytesForHash skips hashing of larger files. 0 hashes everything.
	MaxBytesForHash int64 `yaml:"max_bytes_for_hash" json:"max_bytes_for_hash" validate:"gte=0"`
	// HashChunkSize is the streaming read size for SHA-256.
	HashChunkSize int `yaml:"hash_chunk_size" json:"hash_chunk_size" validate:"gte=4096"`
	// VaultPaths is "relative" (label:rel_path) or "absolute" (label:full_path).
	VaultPaths string `yaml:"vault_paths" json:"vault_paths" validate:"oneof=relative absolute"`
	// Exclude holds gitignore-style patterns matched against root-relative paths.
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// ExtractionConfig configures text extraction.
type ExtractionConfig struct {
	MaxChars int  `yaml:"max_chars" json:"max_chars" validate:"gte=1"`
	PDF      bool `yaml:"pdf" json:"pdf"`
}

// CacheConfig sizes the analysis memo. 0 disables it.
type CacheConfig struct {
	Size int `yaml:"size" json:"size" validate:"gte=0"`
}

// EntitiesConfig extends the built-in entity vocabulary.
type EntitiesConfig struct {
	Aliases   []AliasEntry `yaml:"aliases" json:"aliases" validate:"dive"`
	Stopwords []string     `yaml:"stopwords" json:"stopwords"`
}

// AliasEntry is one canonical entity with its alias spellings.
type AliasEntry struct {
	Canonical string   `yaml:"canonical" json:"canonical" validate:"required"`
	Aliases   []string `yaml:"aliases" json:"aliases"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Run: RunConfig{
			EvidenceRootName: "evidence",
			Workers:          runtime.NumCPU(),
			MaxBytesForHash:  0,
			HashChunkSize:    1024 * 1024,
			VaultPaths:       VaultPathsRelative,
			Exclude:          []string{},
		},
		Extraction: ExtractionConfig{
			MaxChars: 1_000_000,
			PDF:      true,
		},
		Cache: CacheConfig{
			Size: 256,
		},
		Entities: EntitiesConfig{
			Aliases:   []AliasEntry{},
			Stopwords: []string{},
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration with the following precedence (highest last):
//  1. Hardcoded defaults
//  2. Config file (path, or .evidex.yaml in the working directory)
//  3. Environment variables (EVIDEX_*)
//
// An explicit path that does not exist is an error; a missing default file is not.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, evxerrors.New(evxerrors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file not found: %s", path), err).WithDetail("path", path)
		}
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(FileName); err == nil {
		if err := cfg.loadYAML(FileName); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML decodes a YAML file over the current values. Keys absent from the
// file keep their defaults.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return evxerrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return evxerrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return nil
}

// applyEnvOverrides applies EVIDEX_* environment variable overrides.
// Unparseable values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EVIDEX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Run.Workers = n
		}
	}
	if v := os.Getenv("EVIDEX_MAX_BYTES_FOR_HASH"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Run.MaxBytesForHash = n
		}
	}
	if v := os.Getenv("EVIDEX_EVIDENCE_ROOT_NAME"); v != "" {
		c.Run.EvidenceRootName = v
	}
	if v := os.Getenv("EVIDEX_PDF_EXTRACTION"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Extraction.PDF = b
		}
	}
	if v := os.Getenv("EVIDEX_MAX_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Extraction.MaxChars = n
		}
	}
	if v := os.Getenv("EVIDEX_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks struct constraints and returns a config error naming the
// first offending field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return evxerrors.ConfigError(
				fmt.Sprintf("invalid configuration: %s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()), err).
				WithDetail("field", fe.Namespace())
		}
		return evxerrors.ConfigError("invalid configuration", err)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
