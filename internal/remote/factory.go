package remote

import (
	"context"
	"log/slog"

	"github.com/fjord-cli/fjord/internal/cmd/common"
	"github.com/fjord-cli/fjord/internal/config"
	"github.com/fjord-cli/fjord/internal/dashboard"
)

// Source is anything that can produce the complete item list for a kind.
// Client is the production implementation.
type Source interface {
	Fetch(ctx context.Context, kind dashboard.Kind) ([]dashboard.Item, error)
}

// A function that can build a Source with a given configuration
type SourceFactory func(cfg config.Hook, logger *slog.Logger) (Source, error)

type Key struct{}

// A Key used to store the SourceFactory in a Context
var SourceFactoryKey = Key{}

// DefaultSourceFactory builds a Client from the profile's base URL,
// credential and page interval.
func DefaultSourceFactory(cfg config.Hook, logger *slog.Logger) (Source, error) {
	return NewClient(Options{
		BaseURL:      cfg.GetString(common.BaseURLConfigPath),
		Token:        cfg.GetString(common.TokenConfigPath),
		PageInterval: cfg.GetDuration(common.PageIntervalConfigPath),
		Logger:       logger,
	})
}
