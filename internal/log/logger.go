package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fjord-cli/fjord/internal/util"
)

// Options controls how New builds the command logger.
type Options struct {
	Level   string
	File    string
	Console io.Writer
}

// New builds the CLI logger. Records at or above the configured level go to
// the log file as JSON; errors are mirrored to Console in the friendly format.
// The returned close function releases the log file.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := ConfigLevelStringToSlogLevel(opts.Level)
	closer := func() error { return nil }

	var primary slog.Handler
	if opts.File != "" {
		if err := util.InitDir(opts.File, 0o755); err != nil {
			return nil, closer, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, closer, fmt.Errorf("opening log file: %w", err)
		}
		closer = f.Close
		primary = slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	}

	var secondary slog.Handler
	if opts.Console != nil {
		secondary = NewFriendlyErrorHandler(opts.Console)
	}

	return slog.New(NewDualHandler(primary, secondary)), closer, nil
}
