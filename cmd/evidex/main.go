// Package main provides the entry point for the evidex CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/evidex/cmd/evidex/cmd"
	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(evxerrors.ExitCode(err))
	}
}
