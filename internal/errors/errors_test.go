package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidexError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with EvidexError
	ee := New(ErrCodeFileNotFound, "file not found: test.txt", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, ee)
	assert.Equal(t, originalErr, errors.Unwrap(ee))
	assert.True(t, errors.Is(ee, originalErr))
}

func TestEvidexError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigNotFound,
			message:  "config file not found",
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "root error",
			code:     ErrCodeRootInvalid,
			message:  "root not found",
			expected: "[ERR_207_ROOT_INVALID] root not found",
		},
		{
			name:     "seed error",
			code:     ErrCodeSeedInvalid,
			message:  "row 3 has no name",
			expected: "[ERR_407_SEED_INVALID] row 3 has no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestEvidexError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeOutputWrite, "a.json", nil)
	err2 := New(ErrCodeOutputWrite, "b.json", nil)
	err3 := New(ErrCodeOutputLocked, "locked", nil)

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestCategoryAndSeverity_DerivedFromCode(t *testing.T) {
	tests := []struct {
		code     string
		category Category
		severity Severity
	}{
		{ErrCodeConfigInvalid, CategoryConfig, SeverityError},
		{ErrCodeRootInvalid, CategoryIO, SeverityFatal},
		{ErrCodeHashFailed, CategoryIO, SeverityWarning},
		{ErrCodeExtractUnavailable, CategoryIO, SeverityWarning},
		{ErrCodeSeedInvalid, CategoryValidation, SeverityWarning},
		{ErrCodeInternal, CategoryInternal, SeverityError},
		{"BAD", CategoryInternal, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "x", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestRootError_IsFatalWithExitCodeTwo(t *testing.T) {
	// Given: a root validation failure wrapped by a caller
	err := fmt.Errorf("preflight: %w", RootError("/missing", nil))

	// Then: it is fatal and maps to exit status 2
	assert.True(t, IsFatal(err))
	assert.Equal(t, ErrCodeRootInvalid, GetCode(err))
	assert.Equal(t, ExitRootInvalid, ExitCode(err))
	assert.Contains(t, err.Error(), "/missing")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitFailure, ExitCode(OutputError("x.json", nil)))
}

func TestWithDetail_AddsContext(t *testing.T) {
	err := New(ErrCodeFileNotFound, "file not found", nil).
		WithDetail("path", "/a/b").
		WithDetail("root", "/a")

	assert.Equal(t, "/a/b", err.Details["path"])
	assert.Equal(t, "/a", err.Details["root"])
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestGetCode_PlainError(t *testing.T) {
	assert.Equal(t, "", GetCode(errors.New("plain")))
}
