// Package main provides the entry point for the leasesync CLI tool.
package main

import (
	"context"
	"os"

	"github.com/jfenner/leasesync/cmd/leasesync/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application := app.New(version, commit, date)

	// Cancel the in-flight run on SIGINT/SIGTERM
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err, application.Logger())
	}
}
