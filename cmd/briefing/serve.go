package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelbrown/briefing/internal/logging"
	"github.com/abelbrown/briefing/internal/server"
)

func runServe() int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := configFlag(fs)
	addr := fs.String("addr", "", "Listen address (default: serve.addr)")
	dataFile := fs.String("data", "", "Snapshot file served as /data.json (default: serve.data_file)")
	fs.Parse(os.Args[1:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return errorf("%v", err)
	}
	if *addr != "" {
		cfg.Serve.Addr = *addr
	}
	if *dataFile != "" {
		cfg.Serve.DataFile = *dataFile
	}

	// No TUI here, so logs go to the terminal.
	logger := logging.New(os.Stderr, cfg.LogLevel)

	st, err := openStore(cfg)
	if err != nil {
		return errorf("%v", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		DataFile:  cfg.Serve.DataFile,
		Bookmarks: st,
		RateLimit: cfg.Serve.RateLimit,
		Burst:     cfg.Serve.Burst,
		Logger:    logger,
	})
	if err := srv.ListenAndServe(ctx, cfg.Serve.Addr); err != nil {
		logger.Error("server stopped", "err", err)
		return 1
	}
	return 0
}
