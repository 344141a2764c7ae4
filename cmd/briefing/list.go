package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abelbrown/briefing/internal/controller"
	"github.com/abelbrown/briefing/internal/logging"
	"github.com/abelbrown/briefing/internal/model"
	"github.com/abelbrown/briefing/internal/timefmt"
)

func runList() int {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := configFlag(fs)
	filterName := fs.String("filter", "all", "Filter: all, newsletters, community, saved")
	asJSON := fs.Bool("json", false, "Print the visible items as JSON")
	fs.Parse(os.Args[1:])

	filter, err := controller.ParseFilter(*filterName)
	if err != nil {
		return errorf("%v", err)
	}

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

	ctrl := controller.New(st,
		controller.WithLogger(logger),
		controller.WithHighlightLimit(cfg.UI.HighlightLimit),
	)
	ctrl.SetFilter(filter)
	ctrl.LoadFeed(context.Background(), newFetcher(cfg, logger))

	if ctrl.Snapshot() == nil {
		return errorf("feed unavailable (details in %s)", cfg.LogDir())
	}

	items := ctrl.Visible()
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return errorf("encode: %v", err)
		}
		return 0
	}
	printItems(os.Stdout, ctrl, items, time.Now())
	return 0
}

// printItems writes a plain-text rendition of the dashboard.
func printItems(w io.Writer, ctrl *controller.Controller, items []model.Item, now time.Time) {
	stats := ctrl.Stats()
	fmt.Fprintf(w, "%s · %d items · %d saved\n", ctrl.Filter().Label(), stats.Total, stats.Saved)
	if len(items) == 0 {
		fmt.Fprintln(w, "\nNo content found")
		return
	}

	for _, item := range items {
		mark := " "
		if ctrl.IsBookmarked(item.ID) {
			mark = "*"
		}
		fmt.Fprintf(w, "\n%s [%s] %s\n", mark, item.SourceName, item.Title)
		if when := timefmt.FormatTime(item.PublishedAt, now); when != "" {
			fmt.Fprintf(w, "    %s\n", when)
		}
		if item.URL != "" {
			fmt.Fprintf(w, "    %s\n", item.URL)
		}
		for _, s := range item.Children {
			mark := " "
			if ctrl.IsBookmarked(s.ID) {
				mark = "*"
			}
			fmt.Fprintf(w, "    %s - %s\n", mark, s.Title)
		}
	}
}
