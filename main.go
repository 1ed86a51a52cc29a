package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjord-cli/fjord/internal/build"
	"github.com/fjord-cli/fjord/internal/cmd/root"
	"github.com/fjord-cli/fjord/internal/iostreams"
)

var (
	// version, commit and date are set with -ldflags "-X main.version=..."
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root.Execute(ctx, iostreams.GetOSIOStreams(), &build.Info{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
}
