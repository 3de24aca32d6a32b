package extract

import (
	"context"
	"os"
	"strings"
)

type textExtractor struct{}

// Extract reads the file and drops invalid UTF-8 sequences.
func (textExtractor) Extract(_ context.Context, path string, _ int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fail(ReasonReadFailed, err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
