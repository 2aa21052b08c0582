package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/cmd"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/observability"
)

func main() {
	// A Ctrl-C mid-run cancels the pipeline context; long phases such as
	// betweenness check it between source nodes.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
