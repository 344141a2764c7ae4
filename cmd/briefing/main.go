// Command briefing is a terminal dashboard for AI newsletter and community
// digests.
//
// Usage:
//
//	briefing                      Run the dashboard (same as `briefing tui`)
//	briefing list [-filter mode]  Print the current snapshot
//	briefing serve [-addr :8787]  Serve data.json and a read-only JSON API
//	briefing bookmarks <cmd>      list | export | clear | import <file>
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

const usage = `briefing - AI newsletter dashboard

Usage:
  briefing [command] [flags]

Commands:
  tui         Run the dashboard (default)
  list        Load the feed once and print the visible items
  serve       Serve data.json and a read-only JSON API
  bookmarks   Manage saved items: list, export, clear, import <file>
  version     Print the version

Every command accepts -config <file>. Without it, ~/.briefing/config.yaml
is read when present.

Environment:
  BRIEFING_FEED_PRIMARY_URL   Primary snapshot endpoint
  BRIEFING_FEED_FALLBACK_URL  Fallback resource (default: <data_dir>/data.json)
  BRIEFING_STORAGE_DRIVER     sqlite (default), bbolt or memory
  BRIEFING_LOG_LEVEL          debug, info, warn or error

Run 'briefing <command> -h' for command-specific help.
`

func main() {
	cmd := "tui"
	if len(os.Args) >= 2 {
		cmd = os.Args[1]
		// Strip the program name + subcommand so flag sets see only their flags
		os.Args = os.Args[1:]
	}

	switch cmd {
	case "tui":
		os.Exit(runTUI())
	case "list":
		os.Exit(runList())
	case "serve":
		os.Exit(runServe())
	case "bookmarks":
		os.Exit(runBookmarks())
	case "version":
		fmt.Println("briefing", version)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "briefing: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
