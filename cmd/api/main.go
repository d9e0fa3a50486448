package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/awaikar-syr/departby/internal/app"
	"github.com/awaikar-syr/departby/internal/appconf"
	"github.com/awaikar-syr/departby/internal/clock"
	"github.com/awaikar-syr/departby/internal/countdown"
	"github.com/awaikar-syr/departby/internal/feed"
	"github.com/awaikar-syr/departby/internal/logging"
	"github.com/awaikar-syr/departby/internal/mbta"
	"github.com/awaikar-syr/departby/internal/metrics"
	"github.com/awaikar-syr/departby/internal/restapi"
	"github.com/awaikar-syr/departby/internal/settings"
	"github.com/awaikar-syr/departby/internal/webui"
)

func main() {
	var (
		port         = flag.Int("port", 4000, "API server port")
		envFlag      = flag.String("env", "development", "Environment (development|test|production)")
		apiKeys      = flag.String("api-keys", "", "Comma-separated API keys; empty disables the key check")
		rateLimit    = flag.Int("rate-limit", 100, "Requests per second per API key; 0 disables")
		verbose      = flag.Bool("verbose", false, "Enable debug logging")
		configPath   = flag.String("config", "", "Optional YAML config file")
		mbtaURL      = flag.String("mbta-url", mbta.DefaultBaseURL, "MBTA v3 API base URL")
		mbtaKey      = flag.String("mbta-key", os.Getenv("MBTA_API_KEY"), "MBTA v3 API key")
		pollInterval = flag.Duration("poll-interval", 30*time.Second, "Feed poll interval")
		dbPath       = flag.String("db", "departby.db", "Settings database path")
	)
	flag.Parse()

	cfg := appconf.Config{
		Port:           *port,
		Env:            appconf.EnvFlagToEnvironment(*envFlag),
		ApiKeys:        ParseAPIKeys(*apiKeys),
		RateLimit:      *rateLimit,
		Verbose:        *verbose,
		MBTABaseURL:    *mbtaURL,
		MBTAAPIKey:     *mbtaKey,
		PollInterval:   *pollInterval,
		SettingsDBPath: *dbPath,
	}

	if *configPath != "" {
		fileCfg, err := appconf.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg.Merge(fileCfg)
	}

	application, cleanup, err := buildApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	if cfg.Env != appconf.Production {
		webui.NewWebUI(application).SetRoutes(mux)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		application.Logger.Info("server listening",
			slog.Int("port", cfg.Port), slog.String("env", cfg.Env.String()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.LogError(application.Logger, "server error", err)
			os.Exit(1)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	application.Logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.LogError(application.Logger, "server shutdown error", err)
	}
}

// ParseAPIKeys splits a comma-separated key list, trimming whitespace and
// dropping empty entries.
func ParseAPIKeys(raw string) []string {
	keys := []string{}
	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// buildApplication wires the full dependency graph: settings store, feed
// manager, countdown engine, metrics. The returned cleanup stops the
// background loops and closes the store.
func buildApplication(cfg appconf.Config) (*app.Application, func(), error) {
	logger := logging.NewLogger(cfg.Verbose)
	slog.SetDefault(logger)

	store, err := settings.Open(cfg.SettingsDBPath)
	if err != nil {
		return nil, nil, err
	}

	appClock := clock.RealClock{}
	m := metrics.New()
	client := mbta.NewClient(cfg.MBTABaseURL, cfg.MBTAAPIKey, logger)
	manager := feed.NewManager(client, store, appClock, logger, m, cfg.PollInterval)
	engine := countdown.NewEngine(appClock)

	// Retarget the countdown at the hero prediction after every applied
	// poll; no hero clears the target.
	manager.OnUpdate(feed.CountdownRetargeter(engine))

	manager.Start()
	engine.Start()

	application := &app.Application{
		Config:      cfg,
		Logger:      logger,
		Clock:       appClock,
		Metrics:     m,
		Settings:    store,
		FeedManager: manager,
		Countdown:   engine,
	}

	cleanup := func() {
		manager.Shutdown()
		engine.Shutdown()
		logging.SafeCloseWithLogging(store, logger, "settings_store")
	}
	return application, cleanup, nil
}
