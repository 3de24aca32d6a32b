package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns ~/.evidex/logs, or a temp-dir equivalent when the
// home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".evidex", "logs")
	}
	return filepath.Join(home, ".evidex", "logs")
}

// DefaultLogPath returns the debug log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "evidex.log")
}
