package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/abelbrown/briefing/internal/controller"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadFeedCmd returns a LoadFeed func for AppConfig. Each call starts one
// load in the Bubble Tea command goroutine and reports back via FeedLoaded.
func LoadFeedCmd(ctx context.Context, loader controller.Loader) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			snap, err := loader.Load(ctx)
			return FeedLoaded{Snapshot: snap, Err: err}
		}
	}
}

// OpenInBrowser hands url to the platform opener.
func OpenInBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		return LinkOpened{URL: url, Err: openerCommand(url).Start()}
	}
}

func openerCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// CopyToClipboard writes url to the system clipboard.
func CopyToClipboard(url string) tea.Cmd {
	return func() tea.Msg {
		if clipboard.Unsupported {
			return LinkCopied{URL: url, Err: fmt.Errorf("no clipboard utility available")}
		}
		return LinkCopied{URL: url, Err: clipboard.WriteAll(url)}
	}
}
