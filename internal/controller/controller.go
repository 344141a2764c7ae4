// Package controller owns the dashboard state and every transition on it.
//
// # Architecture
//
//	┌────────┐     ┌────────────┐     ┌──────┐
//	│ Loader │ ──> │ Controller │ ──> │ View │
//	└────────┘     └────────────┘     └──────┘
//	                    │
//	                    v
//	                 ┌───────┐
//	                 │ Store │  (bookmarks only)
//	                 └───────┘
//
// The view never mutates State directly. It calls Controller methods from
// its single update loop and reads the result back through accessors and
// DeriveVisibleItems.
//
// # Concurrency
//
// Controller is NOT safe for concurrent use. There is exactly one mutator:
// the Bubble Tea update loop (or a CLI command running straight through).
// Loads run asynchronously but deliver their result back through that loop
// via FinishLoad.
package controller

import (
	"context"
	"io"

	"github.com/abelbrown/briefing/internal/model"
	"github.com/charmbracelet/log"
)

// DefaultHighlightLimit is how many sub-stories a collapsed card shows.
const DefaultHighlightLimit = 3

// Loader produces a fresh snapshot. *fetch.Fetcher implements it.
type Loader interface {
	Load(ctx context.Context) (*model.Snapshot, error)
}

// BookmarkStore persists the bookmark id list. store.Store implements it.
type BookmarkStore interface {
	Load() ([]string, error)
	Save(ids []string) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHighlightLimit overrides DefaultHighlightLimit. Values < 1 are ignored.
func WithHighlightLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.highlightLimit = n
		}
	}
}

// Controller wraps State with its transitions and bookmark persistence.
type Controller struct {
	state          State
	store          BookmarkStore
	log            *log.Logger
	highlightLimit int
}

// New creates a Controller and reads the bookmark set from store once.
// A nil store keeps bookmarks in memory only. A store read failure is
// logged and leaves the set empty.
func New(store BookmarkStore, opts ...Option) *Controller {
	c := &Controller{
		state:          NewState(),
		store:          store,
		log:            log.New(io.Discard),
		highlightLimit: DefaultHighlightLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithPrefix("controller")

	if store != nil {
		ids, err := store.Load()
		if err != nil {
			c.log.Warn("load bookmarks failed, starting empty", "err", err)
		} else {
			c.state.Bookmarks = NewIDSet(ids...)
			c.log.Debug("bookmarks loaded", "count", len(ids))
		}
	}
	return c
}

// BeginLoad marks a load as in flight.
func (c *Controller) BeginLoad() {
	c.state.Loading = true
}

// FinishLoad applies the outcome of a load and clears the loading flag.
//
// On error the snapshot is dropped rather than kept as last-known-good, so
// the view falls back to its empty state. There is no request generation:
// when refreshes overlap, whichever finishes last overwrites the snapshot
// and the first to finish already cleared Loading.
func (c *Controller) FinishLoad(snap *model.Snapshot, err error) {
	c.state.Loading = false
	if err != nil {
		c.log.Warn("feed unavailable", "err", err)
		c.state.Snapshot = nil
		return
	}
	if snap == nil {
		snap = &model.Snapshot{}
	}
	c.state.Snapshot = snap
	c.log.Info("feed loaded", "items", len(snap.Items), "last_updated", snap.LastUpdated)
}

// LoadFeed runs a whole load synchronously. Never returns an error: the
// outcome is reflected in Snapshot.
func (c *Controller) LoadFeed(ctx context.Context, loader Loader) {
	c.BeginLoad()
	snap, err := loader.Load(ctx)
	c.FinishLoad(snap, err)
}

// ToggleBookmark flips id in the bookmark set and writes the whole set to
// the store before returning. A failed write is logged; the in-memory
// state keeps the toggle. Returns the new membership.
//
// id need not exist in the current snapshot. Orphaned ids stay stored and
// simply never render.
func (c *Controller) ToggleBookmark(id string) bool {
	saved := c.state.Bookmarks.Toggle(id)
	if c.store != nil {
		if err := c.store.Save(c.state.Bookmarks.IDs()); err != nil {
			c.log.Error("persist bookmarks failed", "id", id, "err", err)
		}
	}
	c.log.Debug("bookmark toggled", "id", id, "saved", saved)
	return saved
}

// ToggleCardExpansion flips whether a card body is expanded. Not persisted.
func (c *Controller) ToggleCardExpansion(id string) bool {
	return c.state.Expanded.Toggle(id)
}

// ToggleHighlightExpansion flips whether a card shows all of its
// highlights. Not persisted.
func (c *Controller) ToggleHighlightExpansion(id string) bool {
	return c.state.HighlightsExpanded.Toggle(id)
}

// SetFilter replaces the active filter. The visible list is derived on read.
func (c *Controller) SetFilter(f Filter) {
	c.state.Filter = f
}

// Visible derives the items for the active filter.
func (c *Controller) Visible() []model.Item {
	return DeriveVisibleItems(c.state.Snapshot, c.state.Filter, c.state.Bookmarks)
}

// Stats counts the whole snapshot and the whole bookmark set.
func (c *Controller) Stats() Stats {
	return Stats{
		Total: c.state.Snapshot.Len(),
		Saved: c.state.Bookmarks.Len(),
	}
}

func (c *Controller) Snapshot() *model.Snapshot { return c.state.Snapshot }
func (c *Controller) Loading() bool { return c.state.Loading }
func (c *Controller) Filter() Filter { return c.state.Filter }
func (c *Controller) IsBookmarked(id string) bool { return c.state.Bookmarks.Has(id) }
func (c *Controller) IsExpanded(id string) bool { return c.state.Expanded.Has(id) }
func (c *Controller) HighlightLimit() int { return c.highlightLimit }

// HighlightsExpanded reports whether a card shows all of its highlights.
func (c *Controller) HighlightsExpanded(id string) bool {
	return c.state.HighlightsExpanded.Has(id)
}

// Bookmarks returns the bookmark ids in insertion order.
func (c *Controller) Bookmarks() []string {
	return c.state.Bookmarks.IDs()
}

// State returns the current state. The sets are shared, not copied;
// callers must treat the value as read-only.
func (c *Controller) State() State {
	return c.state
}
