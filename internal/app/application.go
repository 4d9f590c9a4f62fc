package app

import (
	"log/slog"

	"beatwatch.beatmonitor.org/internal/appconf"
	"beatwatch.beatmonitor.org/internal/beatwatch"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config          appconf.Config
	BeatwatchConfig beatwatch.Config
	Logger          *slog.Logger
	Manager         *beatwatch.Manager
}
