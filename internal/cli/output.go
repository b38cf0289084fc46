package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/woolly-dev/woolly/internal/logging"
)

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// interactive reports whether stdin is a terminal.
func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// screenLogger returns the logger for full-screen commands. Records go
// only to the log file, never to stderr, so they do not draw over the
// terminal UI; without a log file they are dropped. The closer releases
// the file.
func (a *app) screenLogger() (*slog.Logger, io.Closer, error) {
	cfg := a.logConfig
	cfg.Output = io.Discard
	return logging.New(cfg)
}
