// Package digest computes SHA-256 content digests for evidence files.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the streaming read size.
const DefaultChunkSize = 1024 * 1024

// Status records how a digest was obtained.
type Status int

const (
	// Computed means Hex holds the file's SHA-256.
	Computed Status = iota
	// Skipped means the size ceiling excluded the file. Policy, not failure.
	Skipped
	// Failed means the file could not be read.
	Failed
)

// String returns the status name used in logs and exports.
func (s Status) String() string {
	switch s {
	case Computed:
		return "computed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome for one file. Hex is empty unless Status is Computed.
type Result struct {
	Hex    string
	Status Status
	Err    error
}

// Engine hashes files in fixed-size chunks.
type Engine struct {
	// ChunkSize is the read buffer size. Zero means DefaultChunkSize.
	ChunkSize int
	// MaxBytes skips files larger than this. Zero or negative hashes everything.
	MaxBytes int64
}

// Sum hashes the file at path. size is the walk-time size and is only used
// for the ceiling check.
func (e Engine) Sum(path string, size int64) Result {
	if e.MaxBytes > 0 && size > e.MaxBytes {
		return Result{Status: Skipped}
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{Status: Failed, Err: err}
	}
	defer f.Close()

	chunk := e.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	h := sha256.New()
	buf := make([]byte, chunk)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{Status: Failed, Err: err}
		}
	}
	return Result{Hex: hex.EncodeToString(h.Sum(nil)), Status: Computed}
}
