package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abelbrown/briefing/internal/controller"
	"github.com/abelbrown/briefing/internal/model"
	"github.com/abelbrown/briefing/internal/timefmt"
	"github.com/charmbracelet/lipgloss"
)

// targetKind is what the cursor can rest on.
type targetKind int

const (
	targetCard targetKind = iota
	targetHighlight
	targetMore
)

// target is one focusable row. item indexes the visible list; child
// indexes item.Children and is -1 for cards and toggles.
type target struct {
	kind  targetKind
	item  int
	child int
}

// view is the read-only slice of controller state the renderer needs.
type view interface {
	IsBookmarked(id string) bool
	IsExpanded(id string) bool
	HighlightsExpanded(id string) bool
	HighlightLimit() int
}

var _ view = (*controller.Controller)(nil)

// shownChildren returns how many highlights render and whether a toggle
// row follows them.
func shownChildren(item model.Item, v view) (shown int, toggle bool) {
	n := len(item.Children)
	limit := v.HighlightLimit()
	if n <= limit {
		return n, false
	}
	if v.HighlightsExpanded(item.ID) {
		return n, true
	}
	return limit, true
}

// buildTargets lists every focusable row in render order.
func buildTargets(items []model.Item, v view) []target {
	targets := make([]target, 0, len(items))
	for i, item := range items {
		targets = append(targets, target{kind: targetCard, item: i, child: -1})
		shown, toggle := shownChildren(item, v)
		for j := 0; j < shown; j++ {
			targets = append(targets, target{kind: targetHighlight, item: i, child: j})
		}
		if toggle {
			targets = append(targets, target{kind: targetMore, item: i, child: -1})
		}
	}
	return targets
}

// targetID is the id a bookmark toggle on t applies to. Toggle rows have none.
func targetID(items []model.Item, t target) string {
	switch t.kind {
	case targetCard:
		return items[t.item].ID
	case targetHighlight:
		return items[t.item].Children[t.child].ID
	default:
		return ""
	}
}

// targetURL is the link o and y act on. Toggle rows have none.
func targetURL(items []model.Item, t target) string {
	switch t.kind {
	case targetCard:
		return items[t.item].URL
	case targetHighlight:
		return items[t.item].Children[t.child].URL
	default:
		return ""
	}
}

// layout is the rendered card list. start[i] is the first line of
// target i and end[i] is one past its last.
type layout struct {
	lines []string
	start []int
	end   []int
}

// renderCards renders items as cards. targets must come from buildTargets
// on the same items and view.
func renderCards(items []model.Item, targets []target, cursor int, v view, width int, now time.Time) layout {
	var l layout
	for ti, t := range targets {
		l.start = append(l.start, len(l.lines))
		focused := ti == cursor
		item := items[t.item]
		switch t.kind {
		case targetCard:
			if ti > 0 {
				l.lines = append(l.lines, "")
			}
			l.lines = append(l.lines, renderCardBody(item, focused, v, width, now)...)
		case targetHighlight:
			last := false
			if shown, toggle := shownChildren(item, v); !toggle && t.child == shown-1 {
				last = true
			}
			l.lines = append(l.lines, renderHighlight(item.Children[t.child], last, focused, v, width))
		case targetMore:
			l.lines = append(l.lines, renderMoreToggle(item, focused, v))
		}
		l.end = append(l.end, len(l.lines))
	}
	return l
}

const indent = "    "

func renderCardBody(item model.Item, focused bool, v view, width int, now time.Time) []string {
	thumb := "□"
	if item.Thumbnail != "" {
		thumb = "▣"
	}
	badge := SourceBadge
	if item.IsCommunity() {
		badge = CommunityBadge
	}
	source := badge.Render(item.SourceName)
	glyph := bookmarkGlyph(v.IsBookmarked(item.ID))

	marker := "  "
	if focused {
		marker = "› "
	}
	prefix := marker + thumb + " " + source + " "
	titleWidth := width - lipgloss.Width(prefix) - 3
	title := truncate(item.Title, titleWidth)
	if focused {
		title = SelectedItem.Render(title)
	} else {
		title = CardTitle.Render(title)
	}

	lines := []string{prefix + title + " " + glyph}

	if text := item.DisplayText(); text != "" {
		maxLines := 2
		if v.IsExpanded(item.ID) {
			maxLines = 0
		}
		for _, line := range wrap(text, width-len(indent), maxLines) {
			lines = append(lines, indent+BodyText.Render(line))
		}
	}
	if v.IsExpanded(item.ID) && len(item.Tags) > 0 {
		lines = append(lines, indent+MetaItem.Render("#"+strings.Join(item.Tags, " #")))
	}

	meta := timefmt.FormatTime(item.PublishedAt, now)
	if item.URL != "" {
		if meta != "" {
			meta += " · "
		}
		meta += truncate(item.URL, width-len(indent)-utf8.RuneCountInString(meta))
	}
	if meta != "" {
		lines = append(lines, indent+MetaItem.Render(meta))
	}
	return lines
}

func renderHighlight(s model.SubStory, last, focused bool, v view, width int) string {
	branch := "├ "
	if last {
		branch = "└ "
	}
	title := s.Title
	if title == "" {
		title = s.URL
	}
	title = truncate(title, width-len(indent)-6)
	if focused {
		title = SelectedItem.Render(title)
	} else {
		title = HighlightItem.Render(title)
	}
	return indent + MetaItem.Render(branch) + title + " " + bookmarkGlyph(v.IsBookmarked(s.ID))
}

func renderMoreToggle(item model.Item, focused bool, v view) string {
	label := "show fewer"
	if !v.HighlightsExpanded(item.ID) {
		label = fmt.Sprintf("+ %d more", len(item.Children)-v.HighlightLimit())
	}
	if focused {
		label = SelectedItem.Render(label)
	} else {
		label = MoreToggle.Render(label)
	}
	return indent + MetaItem.Render("└ ") + label
}

func bookmarkGlyph(saved bool) string {
	if saved {
		return SavedGlyph.Render("★")
	}
	return MetaItem.Render("☆")
}

// window returns the lines of l that fit in height, scrolled so the
// cursor target is fully visible when it fits.
func window(l layout, cursor, height int) []string {
	if height < 1 {
		height = 1
	}
	if len(l.lines) <= height {
		return l.lines
	}
	offset := 0
	if cursor >= 0 && cursor < len(l.end) {
		if l.end[cursor] > height {
			offset = l.end[cursor] - height
		}
		if offset > l.start[cursor] {
			offset = l.start[cursor]
		}
	}
	end := offset + height
	if end > len(l.lines) {
		end = len(l.lines)
	}
	return l.lines[offset:end]
}

// RenderHeader renders the brand line with the unfiltered counters.
func RenderHeader(stats controller.Stats, lastUpdated string, width int, now time.Time) string {
	left := Brand.Render("Briefing")
	right := HeaderStat.Render(fmt.Sprintf("%d items · %d saved", stats.Total, stats.Saved))
	if lastUpdated != "" {
		right = HeaderStat.Render("updated "+timefmt.FormatTime(lastUpdated, now)+" · ") + right
	}
	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

// RenderTabs renders the filter tabs with their number keys.
func RenderTabs(active controller.Filter) string {
	tabs := make([]string, 0, len(controller.Filters))
	for i, f := range controller.Filters {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == active {
			tabs = append(tabs, ActiveTab.Render(label))
		} else {
			tabs = append(tabs, Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderStatusBar renders the bottom status bar with key hints.
func RenderStatusBar(status string, width int) string {
	left := ""
	if status != "" {
		left = " " + status + " "
	}

	hints := make([]string, 0, len(statusHints))
	for _, b := range statusHints {
		h := b.Help()
		hints = append(hints, StatusBarKey.Render(h.Key)+StatusBarText.Render(":"+h.Desc))
	}
	keyHints := strings.Join(hints, " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(keyHints) - 2
	if padding < 0 {
		padding = 0
	}
	return StatusBar.Width(width).Render(left + strings.Repeat(" ", padding) + keyHints)
}

// wrap word-wraps s to width. maxLines > 0 clamps the result and marks
// the cut with an ellipsis.
func wrap(s string, width, maxLines int) []string {
	if width < 10 {
		width = 10
	}
	rendered := lipgloss.NewStyle().Width(width).Render(s)
	lines := strings.Split(rendered, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncate(lines[maxLines-1]+" …", width)
	}
	return lines
}

// truncate shortens s to n runes, adding "…" if cut.
func truncate(s string, n int) string {
	if n < 1 {
		n = 1
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
