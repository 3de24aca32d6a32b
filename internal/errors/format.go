package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// asEvidexError returns the first EvidexError in the chain, wrapping plain
// errors as internal errors.
func asEvidexError(err error) *EvidexError {
	var ee *EvidexError
	if stderrors.As(err, &ee) {
		return ee
	}
	return Wrap(ErrCodeInternal, err)
}

// FormatForCLI formats an error for the error stream.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	ee := asEvidexError(err)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ERROR: %s\n", ee.Message))
	if ee.Cause != nil && ee.Cause.Error() != ee.Message {
		sb.WriteString(fmt.Sprintf("  Cause: %s\n", ee.Cause.Error()))
	}
	if ee.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", ee.Suggestion))
	}
	sb.WriteString(fmt.Sprintf("  Code: %s\n", ee.Code))

	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

// FormatJSON returns a JSON representation of the error.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	ee := asEvidexError(err)
	je := jsonError{
		Code:       ee.Code,
		Message:    ee.Message,
		Category:   string(ee.Category),
		Severity:   string(ee.Severity),
		Details:    ee.Details,
		Suggestion: ee.Suggestion,
	}
	if ee.Cause != nil {
		je.Cause = ee.Cause.Error()
	}

	return json.Marshal(je)
}

// LogAttrs formats an error as alternating key/value pairs for slog.
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}

	var ee *EvidexError
	if !stderrors.As(err, &ee) {
		return []any{"error", err.Error()}
	}

	attrs := []any{
		"error_code", ee.Code,
		"message", ee.Message,
		"category", string(ee.Category),
		"severity", string(ee.Severity),
	}
	if ee.Cause != nil {
		attrs = append(attrs, "cause", ee.Cause.Error())
	}

	keys := make([]string, 0, len(ee.Details))
	for k := range ee.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, "detail_"+k, ee.Details[k])
	}

	return attrs
}
