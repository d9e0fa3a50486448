package app

import (
	"log/slog"

	"github.com/awaikar-syr/departby/internal/appconf"
	"github.com/awaikar-syr/departby/internal/clock"
	"github.com/awaikar-syr/departby/internal/countdown"
	"github.com/awaikar-syr/departby/internal/feed"
	"github.com/awaikar-syr/departby/internal/metrics"
	"github.com/awaikar-syr/departby/internal/settings"
)

// Application holds the dependencies for our HTTP handlers, helpers, and
// background loops: configuration, logger, clock, metrics, the settings
// store, the feed manager, and the countdown engine.
type Application struct {
	Config      appconf.Config
	Logger      *slog.Logger
	Clock       clock.Clock
	Metrics     *metrics.Metrics
	Settings    *settings.Store
	FeedManager *feed.Manager
	Countdown   *countdown.Engine
}
