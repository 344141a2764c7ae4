package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// wirePayload is the union of both JSON shapes seen in the wild: the legacy
// flat article list and the nested edition/story hierarchy. The lists are
// pointers so an absent key can be told apart from an empty list.
type wirePayload struct {
	LastUpdated string       `json:"last_updated"`
	Articles    *[]wireEntry `json:"articles"`
	Editions    *[]wireEntry `json:"editions"`
	Error       string       `json:"error"`
}

type wireEntry struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Source      string      `json:"source"`
	URL         string      `json:"url"`
	Summary     string      `json:"summary"`
	Resume      string      `json:"resume"`
	PublishedAt string      `json:"published_at"`
	Thumbnail   string      `json:"thumbnail"`
	Tags        []string    `json:"tags"`
	Stories     []wireStory `json:"stories"`
}

type wireStory struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Summary   string `json:"summary"`
	Thumbnail string `json:"thumbnail"`
}

// ErrNoItems is returned by DecodeStrict for a well-formed payload that
// carries no item list. It wraps ErrParse.
var ErrNoItems = fmt.Errorf("%w: no articles or editions", ErrParse)

// Decode adapts a raw payload into a Snapshot. JSON payloads may use either
// the "articles" or the "editions" shape (or both; articles come first).
// Payloads starting with '<' are treated as RSS/Atom and go through DecodeFeed.
//
// A payload without any item list decodes to an empty snapshot, not an error.
func Decode(data []byte) (*Snapshot, error) {
	snap, _, err := decode(data)
	return snap, err
}

// DecodeStrict is Decode for the fetch path: a payload with neither
// "articles" nor "editions", or one carrying an "error" key, fails with
// ErrNoItems so the caller can move on to another source.
func DecodeStrict(data []byte) (*Snapshot, error) {
	snap, shapeErr, err := decode(data)
	if err != nil {
		return nil, err
	}
	if shapeErr != nil {
		return nil, shapeErr
	}
	return snap, nil
}

// decode returns a hard error for undecodable input and a separate shape
// error (wrapping ErrNoItems) for a payload that decoded but carries no
// item list. A snapshot is returned whenever err is nil.
func decode(data []byte) (snap *Snapshot, shapeErr, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil, fmt.Errorf("%w: empty body", ErrParse)
	}
	if trimmed[0] == '<' {
		snap, err = DecodeFeed(trimmed)
		return snap, nil, err
	}

	var p wirePayload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	switch {
	case p.Error != "":
		shapeErr = fmt.Errorf("%w: source reported %q", ErrNoItems, p.Error)
	case p.Articles == nil && p.Editions == nil:
		shapeErr = ErrNoItems
	}

	var articles, editions []wireEntry
	if p.Articles != nil {
		articles = *p.Articles
	}
	if p.Editions != nil {
		editions = *p.Editions
	}

	ids := newIDIssuer()
	for _, list := range [][]wireEntry{articles, editions} {
		for _, e := range list {
			ids.claim(e.ID)
			for _, s := range e.Stories {
				ids.claim(s.ID)
			}
		}
	}

	snap = &Snapshot{
		LastUpdated: p.LastUpdated,
		Items:       make([]Item, 0, len(articles)+len(editions)),
	}
	for _, e := range articles {
		snap.Items = append(snap.Items, convertEntry(e, false, ids))
	}
	for _, e := range editions {
		snap.Items = append(snap.Items, convertEntry(e, true, ids))
	}

	return snap, shapeErr, nil
}

// convertEntry maps one wire entry to an Item. nested is true for entries
// that came from the "editions" list.
func convertEntry(e wireEntry, nested bool, ids *idIssuer) Item {
	kind := KindArticle
	if nested || strings.EqualFold(e.Type, string(KindEdition)) || len(e.Stories) > 0 {
		kind = KindEdition
	}

	item := Item{
		ID:          e.ID,
		Kind:        kind,
		Title:       strings.TrimSpace(e.Title),
		SourceName:  strings.TrimSpace(e.Source),
		URL:         e.URL,
		Summary:     PlainText(e.Summary),
		PublishedAt: e.PublishedAt,
		Thumbnail:   e.Thumbnail,
		Tags:        e.Tags,
	}
	if kind == KindEdition {
		item.Resume = PlainText(e.Resume)
	}
	if item.ID == "" {
		item.ID = ids.derive(e.URL, e.Title)
	}

	if len(e.Stories) > 0 {
		item.Children = make([]SubStory, 0, len(e.Stories))
		for _, s := range e.Stories {
			child := SubStory{
				ID:        s.ID,
				Title:     strings.TrimSpace(s.Title),
				URL:       s.URL,
				Summary:   PlainText(s.Summary),
				Thumbnail: s.Thumbnail,
			}
			if child.ID == "" {
				child.ID = ids.derive(s.URL, item.ID+"/"+s.Title)
			}
			item.Children = append(item.Children, child)
		}
	}
	return item
}

// stableID derives a deterministic id so that entries published without one
// keep the same bookmark key across refreshes. The URL wins when present.
func stableID(url, fallback string) string {
	key := url
	if key == "" {
		key = fallback
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:8]) // 16 character hex string
}

// idIssuer keeps ids unique within one snapshot. Ids supplied by the payload
// are claimed up front; a derived id that is already taken gets "-2", "-3"
// and so on by order of appearance, so the result stays stable across
// refreshes of the same payload.
type idIssuer struct {
	taken map[string]struct{}
}

func newIDIssuer() *idIssuer {
	return &idIssuer{taken: make(map[string]struct{})}
}

func (t *idIssuer) claim(id string) {
	if id != "" {
		t.taken[id] = struct{}{}
	}
}

func (t *idIssuer) derive(url, fallback string) string {
	base := stableID(url, fallback)
	id := base
	for n := 2; ; n++ {
		if _, dup := t.taken[id]; !dup {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	t.taken[id] = struct{}{}
	return id
}
