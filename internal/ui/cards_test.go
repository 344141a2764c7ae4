package ui

import (
	"strings"
	"testing"

	"github.com/abelbrown/briefing/internal/controller"
	"github.com/abelbrown/briefing/internal/model"
	"github.com/google/go-cmp/cmp"
)

func TestBuildTargets(t *testing.T) {
	ctrl := controller.New(nil)
	items := editionSnapshot().Items

	got := buildTargets(items, ctrl)
	want := []target{
		{kind: targetCard, item: 0, child: -1},
		{kind: targetHighlight, item: 0, child: 0},
		{kind: targetHighlight, item: 0, child: 1},
		{kind: targetHighlight, item: 0, child: 2},
		{kind: targetMore, item: 0, child: -1},
		{kind: targetCard, item: 1, child: -1},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(target{})); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}

	ctrl.ToggleHighlightExpansion("e1")
	if got := buildTargets(items, ctrl); len(got) != 7 {
		t.Errorf("expected 7 targets when expanded, got %d", len(got))
	}
}

func TestBuildTargetsNoToggleAtLimit(t *testing.T) {
	ctrl := controller.New(nil)
	items := []model.Item{{ID: "e", Children: []model.SubStory{{ID: "a"}, {ID: "b"}, {ID: "c"}}}}

	for _, tg := range buildTargets(items, ctrl) {
		if tg.kind == targetMore {
			t.Error("no toggle row when children fit within the limit")
		}
	}
}

func TestBuildTargetsCustomLimit(t *testing.T) {
	ctrl := controller.New(nil, controller.WithHighlightLimit(1))
	items := editionSnapshot().Items[:1]

	l := renderCards(items, buildTargets(items, ctrl), -1, ctrl, 80, testNow)
	if !strings.Contains(strings.Join(l.lines, "\n"), "+ 3 more") {
		t.Errorf("expected + 3 more with limit 1:\n%s", strings.Join(l.lines, "\n"))
	}
}

func TestTargetIDAndURL(t *testing.T) {
	items := editionSnapshot().Items
	tests := []struct {
		t       target
		id, url string
	}{
		{target{kind: targetCard, item: 0, child: -1}, "e1", "https://therundown.ai/e1"},
		{target{kind: targetHighlight, item: 0, child: 2}, "s3", "https://therundown.ai/s3"},
		{target{kind: targetMore, item: 0, child: -1}, "", ""},
	}
	for _, tt := range tests {
		if got := targetID(items, tt.t); got != tt.id {
			t.Errorf("targetID(%+v) = %q, want %q", tt.t, got, tt.id)
		}
		if got := targetURL(items, tt.t); got != tt.url {
			t.Errorf("targetURL(%+v) = %q, want %q", tt.t, got, tt.url)
		}
	}
}

func TestRenderCardClampsText(t *testing.T) {
	ctrl := controller.New(nil)
	long := strings.Repeat("word ", 60)
	items := []model.Item{{ID: "x", Title: "Long one", SourceName: "Ben's Bites", Summary: long}}
	targets := buildTargets(items, ctrl)

	collapsed := renderCards(items, targets, 0, ctrl, 60, testNow)
	ctrl.ToggleCardExpansion("x")
	expanded := renderCards(items, targets, 0, ctrl, 60, testNow)

	// title + 2 body lines, no meta line
	if len(collapsed.lines) != 3 {
		t.Errorf("collapsed card should clamp to 2 body lines, got %d lines:\n%s",
			len(collapsed.lines), strings.Join(collapsed.lines, "\n"))
	}
	if !strings.Contains(collapsed.lines[2], "…") {
		t.Errorf("clamped text should end with an ellipsis: %q", collapsed.lines[2])
	}
	if len(expanded.lines) <= len(collapsed.lines) {
		t.Error("expanded card should show the full text")
	}
}

func TestRenderCardGlyphsAndMeta(t *testing.T) {
	ctrl := controller.New(nil)
	items := editionSnapshot().Items
	ctrl.ToggleBookmark("a1")

	out := strings.Join(renderCards(items, buildTargets(items, ctrl), 0, ctrl, 100, testNow).lines, "\n")
	for _, want := range []string{"› ", "★", "☆", "3h ago", "Oct 16", "https://reddit.com/a1", "Today's top stories."} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestWindowKeepsCursorVisible(t *testing.T) {
	l := layout{
		lines: []string{"a0", "a1", "a2", "b0", "b1", "b2", "c0", "c1", "c2"},
		start: []int{0, 3, 6},
		end:   []int{3, 6, 9},
	}
	tests := []struct {
		cursor int
		want   []string
	}{
		{0, []string{"a0", "a1", "a2", "b0"}},
		{1, []string{"a2", "b0", "b1", "b2"}},
		{2, []string{"b2", "c0", "c1", "c2"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, window(l, tt.cursor, 4)); diff != "" {
			t.Errorf("cursor %d (-want +got):\n%s", tt.cursor, diff)
		}
	}

	if got := window(l, 0, 20); len(got) != 9 {
		t.Errorf("short lists render whole, got %d lines", len(got))
	}
}

func TestRenderTabs(t *testing.T) {
	out := RenderTabs(controller.FilterSaved)
	for _, want := range []string{"1 All Sources", "2 Newsletters", "3 Community", "4 Saved"} {
		if !strings.Contains(out, want) {
			t.Errorf("tabs missing %q: %s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo wörld", 5); got != "héll…" {
		t.Errorf("got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
}
