package controller

import (
	"fmt"
	"strings"

	"github.com/abelbrown/briefing/internal/model"
)

// Filter selects which slice of the snapshot is visible.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterNewsletters Filter = "newsletters"
	FilterCommunity   Filter = "community"
	FilterSaved       Filter = "saved"
)

// Filters lists every mode in tab order.
var Filters = []Filter{FilterAll, FilterNewsletters, FilterCommunity, FilterSaved}

// Label is the tab title for the filter.
func (f Filter) Label() string {
	switch f {
	case FilterNewsletters:
		return "Newsletters"
	case FilterCommunity:
		return "Community"
	case FilterSaved:
		return "Saved"
	default:
		return "All Sources"
	}
}

// ParseFilter accepts the canonical names plus the legacy tab name "reddit".
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "newsletters", "newsletter":
		return FilterNewsletters, nil
	case "community", "reddit":
		return FilterCommunity, nil
	case "saved", "bookmarks":
		return FilterSaved, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

// Bookmarked is the lookup DeriveVisibleItems needs. *IDSet satisfies it.
type Bookmarked interface {
	Has(id string) bool
}

// DeriveVisibleItems returns the items visible under filter. It has no side
// effects and never reorders: every mode sub-selects from snap.Items in
// source order. A nil snapshot yields an empty slice. Unknown modes behave
// like FilterAll.
func DeriveVisibleItems(snap *model.Snapshot, filter Filter, bookmarks Bookmarked) []model.Item {
	if snap == nil || len(snap.Items) == 0 {
		return []model.Item{}
	}

	visible := make([]model.Item, 0, len(snap.Items))
	for _, item := range snap.Items {
		if keep(item, filter, bookmarks) {
			visible = append(visible, item)
		}
	}
	return visible
}

func keep(item model.Item, filter Filter, bookmarks Bookmarked) bool {
	switch filter {
	case FilterNewsletters:
		return !item.IsCommunity()
	case FilterCommunity:
		return item.IsCommunity()
	case FilterSaved:
		return isSaved(item, bookmarks)
	default:
		return true
	}
}

// isSaved is true when the item itself or any of its children is bookmarked.
func isSaved(item model.Item, bookmarks Bookmarked) bool {
	if bookmarks == nil {
		return false
	}
	if bookmarks.Has(item.ID) {
		return true
	}
	for _, child := range item.Children {
		if bookmarks.Has(child.ID) {
			return true
		}
	}
	return false
}
