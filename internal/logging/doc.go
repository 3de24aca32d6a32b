// Package logging configures slog for evidex runs.
//
// By default logs are plain text on stderr at warn level. With --debug a JSON
// log is also written to ~/.evidex/logs/evidex.log with size-based rotation.
// Log records carry paths and counts only, never document text.
package logging
