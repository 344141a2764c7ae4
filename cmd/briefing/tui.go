package main

import (
	"context"
	"flag"
	"os"

	"github.com/abelbrown/briefing/internal/controller"
	"github.com/abelbrown/briefing/internal/logging"
	"github.com/abelbrown/briefing/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

func runTUI() int {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	configPath := configFlag(fs)
	fs.Parse(os.Args[1:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return errorf("%v", err)
	}
	logger := initFileLogging(cfg)
	defer logging.Close()

	st, err := openStore(cfg)
	if err != nil {
		logger.Error("open store", "err", err)
		return errorf("%v", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := controller.New(st,
		controller.WithLogger(logger),
		controller.WithHighlightLimit(cfg.UI.HighlightLimit),
	)
	fetcher := newFetcher(cfg, logger)
	logger.Info("feed sources", "primary", fetcher.Primary(), "fallback", fetcher.Fallback())

	app := ui.NewApp(ui.AppConfig{
		Controller: ctrl,
		LoadFeed:   ui.LoadFeedCmd(ctx, fetcher),
		OpenURL:    ui.OpenInBrowser,
		CopyURL:    ui.CopyToClipboard,
		Logger:     logger,
	})

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		logger.Error("program exited", "err", err)
		return errorf("%v", err)
	}
	return 0
}
