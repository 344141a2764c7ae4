// Package model defines the normalized feed snapshot that every payload shape
// is adapted into at the ingestion boundary.
//
// The rest of the program only ever sees Snapshot, Item and SubStory. Wire
// formats (flat article lists, nested editions, RSS/Atom documents) are
// handled in convert.go and feed.go.
package model

import "errors"

// ErrParse is wrapped by every decode failure (invalid JSON or XML, or a
// payload DecodeStrict rejects for its shape).
var ErrParse = errors.New("parse feed")

// CommunitySource is the SourceName that marks community (non-newsletter) posts.
const CommunitySource = "Reddit"

// Kind distinguishes standalone articles from aggregated editions.
type Kind string

const (
	KindArticle Kind = "article"
	KindEdition Kind = "edition"
)

// Snapshot is one full feed payload. It is replaced wholesale on every
// successful load and never merged with a previous one.
type Snapshot struct {
	LastUpdated string `json:"last_updated"`
	Items       []Item `json:"items"`
}

// Len returns the number of top-level items. Safe on a nil snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Item is either a standalone article or an edition bundling sub-stories.
type Item struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	Title       string     `json:"title"`
	SourceName  string     `json:"source"`
	URL         string     `json:"url"`
	Summary     string     `json:"summary,omitempty"`
	Resume      string     `json:"resume,omitempty"` // edition only
	PublishedAt string     `json:"published_at"`     // raw; formatting only, never ordering
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Children    []SubStory `json:"children,omitempty"`
}

// DisplayText returns the resume if present, else the summary, else "".
func (i Item) DisplayText() string {
	if i.Resume != "" {
		return i.Resume
	}
	return i.Summary
}

// IsCommunity reports whether the item comes from the community source.
func (i Item) IsCommunity() bool {
	return i.SourceName == CommunitySource
}

// SubStory is a highlight nested under an edition. Its ID is bookmarkable
// independently of the parent.
type SubStory struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Summary   string `json:"summary,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
