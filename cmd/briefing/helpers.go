package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/briefing/internal/config"
	"github.com/abelbrown/briefing/internal/fetch"
	"github.com/abelbrown/briefing/internal/logging"
	"github.com/abelbrown/briefing/internal/store"
	"github.com/charmbracelet/log"
)

// configFlag registers -config on fs.
func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "Config file (default: <data_dir>/config.yaml if present)")
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// initFileLogging sends logs to the daily file under the data dir. When the
// file cannot be opened, logging is discarded rather than written to the
// terminal the command is using.
func initFileLogging(cfg *config.Config) *log.Logger {
	logger, err := logging.Init(cfg.LogDir(), cfg.LogLevel, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return logging.Logger
	}
	return logger
}

// openStore opens the configured bookmark store.
func openStore(cfg *config.Config) (store.Store, error) {
	st, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store at %s: %w", cfg.Storage.Driver, cfg.Storage.Path, err)
	}
	return st, nil
}

// newFetcher builds the primary+fallback fetcher from config.
func newFetcher(cfg *config.Config, logger *log.Logger) *fetch.Fetcher {
	return fetch.New(fetch.Config{
		PrimaryURL:  cfg.Feed.PrimaryURL,
		FallbackURL: cfg.Feed.FallbackURL,
		Timeout:     cfg.Feed.Timeout,
		UserAgent:   cfg.Feed.UserAgent,
		Logger:      logger,
	})
}

// errorf reports a command failure on stderr and returns exit code 1.
// Commands return it instead of exiting so their deferred cleanup runs.
func errorf(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "briefing: "+format+"\n", args...)
	return 1
}
