// Package ui provides the Bubble Tea dashboard for briefing.
package ui

import "github.com/abelbrown/briefing/internal/model"

// FeedLoaded is sent when a snapshot load finishes, successfully or not.
type FeedLoaded struct {
	Snapshot *model.Snapshot
	Err      error
}

// LinkOpened is sent after an attempt to open a URL in the browser.
type LinkOpened struct {
	URL string
	Err error
}

// LinkCopied is sent after an attempt to copy a URL to the clipboard.
type LinkCopied struct {
	URL string
	Err error
}
