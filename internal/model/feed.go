package model

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// DecodeFeed converts an RSS or Atom document into a Snapshot. Every entry
// becomes an article whose SourceName is the feed title.
func DecodeFeed(data []byte) (*Snapshot, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	source := strings.TrimSpace(feed.Title)
	snap := &Snapshot{Items: make([]Item, 0, len(feed.Items))}
	if feed.UpdatedParsed != nil {
		snap.LastUpdated = feed.UpdatedParsed.Format(time.RFC3339)
	} else if feed.PublishedParsed != nil {
		snap.LastUpdated = feed.PublishedParsed.Format(time.RFC3339)
	}

	ids := newIDIssuer()
	for _, fi := range feed.Items {
		ids.claim(fi.GUID)
	}
	for _, fi := range feed.Items {
		snap.Items = append(snap.Items, convertFeedItem(fi, source, ids))
	}
	return snap, nil
}

// convertFeedItem converts a gofeed.Item to an article Item.
func convertFeedItem(fi *gofeed.Item, source string, ids *idIssuer) Item {
	var published string
	switch {
	case fi.PublishedParsed != nil:
		published = fi.PublishedParsed.Format(time.RFC3339)
	case fi.UpdatedParsed != nil:
		published = fi.UpdatedParsed.Format(time.RFC3339)
	default:
		published = fi.Published
	}

	// Prefer Description, fall back to Content.
	summary := fi.Description
	if summary == "" {
		summary = fi.Content
	}

	thumb := ""
	if fi.Image != nil {
		thumb = fi.Image.URL
	}

	id := fi.GUID
	if id == "" {
		id = ids.derive(fi.Link, fi.Title)
	}

	return Item{
		ID:          id,
		Kind:        KindArticle,
		Title:       strings.TrimSpace(fi.Title),
		SourceName:  source,
		URL:         fi.Link,
		Summary:     PlainText(summary),
		PublishedAt: published,
		Thumbnail:   thumb,
		Tags:        fi.Categories,
	}
}
