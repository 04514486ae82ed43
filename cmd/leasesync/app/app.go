// Package app wires configuration, logging, and the cobra command tree
// for the leasesync CLI.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/jfenner/leasesync/pkg/logging"
)

// App is the leasesync CLI application.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger zerolog.Logger
}

// New creates an App with version information.
func New(version, commit, date string) *App {
	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  &Config{},
		logger:  *logging.Default(),
	}
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return &a.logger
}

// ContextWithSignals returns a context cancelled on SIGINT or SIGTERM so
// an in-flight run can be interrupted cleanly.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Exit codes. Configuration failures are distinguishable from run
// failures so schedulers can tell a broken deployment from a flaky peer.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// ExitOnError terminates the process with the exit code matching the
// error class. A nil error is a no-op.
func ExitOnError(err error, logger *zerolog.Logger) {
	if err == nil {
		return
	}
	if isConfigError(err) {
		logger.Error().Err(err).Msg("Invalid configuration")
		os.Exit(ExitConfig)
	}
	logger.Error().Err(err).Msg("Sync failed")
	os.Exit(ExitFailure)
}
