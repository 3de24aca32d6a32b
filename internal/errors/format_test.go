package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_RootError(t *testing.T) {
	// Given: a root validation error
	err := RootError("/cases/missing", nil)

	// When: formatting for the error stream
	out := FormatForCLI(err)

	// Then: the offending root, hint and code are present
	assert.Contains(t, out, "ERROR: root not found or not a directory: /cases/missing")
	assert.Contains(t, out, "Hint:")
	assert.Contains(t, out, "Code: ERR_207_ROOT_INVALID")
}

func TestFormatForCLI_StandardError(t *testing.T) {
	out := FormatForCLI(errors.New("something went wrong"))

	assert.Contains(t, out, "something went wrong")
	assert.Contains(t, out, ErrCodeInternal)
}

func TestFormatForCLI_Nil(t *testing.T) {
	assert.Equal(t, "", FormatForCLI(nil))
}

func TestFormatJSON_IncludesCause(t *testing.T) {
	err := OutputError("/out/SUMMARY.json", errors.New("disk full"))

	data, jerr := FormatJSON(err)
	require.NoError(t, jerr)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, ErrCodeOutputWrite, parsed["code"])
	assert.Equal(t, "disk full", parsed["cause"])
	assert.Equal(t, "IO", parsed["category"])
}

func TestLogAttrs_SortedDetails(t *testing.T) {
	err := New(ErrCodeHashFailed, "read failed", errors.New("EIO")).
		WithDetail("path", "/p").
		WithDetail("bytes", "10")

	attrs := LogAttrs(err)

	require.Len(t, attrs, 14)
	assert.Equal(t, "error_code", attrs[0])
	assert.Equal(t, "detail_bytes", attrs[10])
	assert.Equal(t, "detail_path", attrs[12])
}

func TestLogAttrs_PlainError(t *testing.T) {
	assert.Equal(t, []any{"error", "x"}, LogAttrs(errors.New("x")))
	assert.Nil(t, LogAttrs(nil))
}
