package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeFlatArticles(t *testing.T) {
	payload := `{
		"last_updated": "2026-10-17T08:00:00+00:00",
		"articles": [
			{"id": "a1", "title": "First", "source": "Reddit", "url": "https://r.example/1",
			 "summary": null, "published_at": "2026-10-17T07:00:00+00:00", "thumbnail": null, "tags": ["Reddit"]},
			{"id": "a2", "title": "Second", "source": "Ben's Bites", "url": "https://b.example/2",
			 "summary": "Plain summary", "published_at": "2026-10-16T07:00:00+00:00", "thumbnail": "https://img/2.png"}
		]
	}`

	snap, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := &Snapshot{
		LastUpdated: "2026-10-17T08:00:00+00:00",
		Items: []Item{
			{ID: "a1", Kind: KindArticle, Title: "First", SourceName: "Reddit", URL: "https://r.example/1",
				PublishedAt: "2026-10-17T07:00:00+00:00", Tags: []string{"Reddit"}},
			{ID: "a2", Kind: KindArticle, Title: "Second", SourceName: "Ben's Bites", URL: "https://b.example/2",
				Summary: "Plain summary", PublishedAt: "2026-10-16T07:00:00+00:00", Thumbnail: "https://img/2.png"},
		},
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeNestedEditions(t *testing.T) {
	payload := `{
		"last_updated": "2026-10-17T08:00:00Z",
		"editions": [
			{"id": "e1", "title": "Daily Digest", "source": "The Rundown AI", "url": "https://rundown.example/p/1",
			 "resume": "<p>Three <b>big</b> stories</p>", "summary": "ignored when resume is set",
			 "stories": [
				{"id": "s1", "title": "Story one", "url": "https://x/1", "summary": "one"},
				{"id": "s2", "title": "Story two", "url": "https://x/2"}
			 ]}
		]
	}`

	snap, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(snap.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(snap.Items))
	}

	e := snap.Items[0]
	if e.Kind != KindEdition {
		t.Errorf("expected edition kind, got %q", e.Kind)
	}
	if e.Resume != "Three big stories" {
		t.Errorf("resume not reduced to text: %q", e.Resume)
	}
	if e.DisplayText() != e.Resume {
		t.Errorf("DisplayText should prefer resume, got %q", e.DisplayText())
	}
	gotIDs := []string{e.Children[0].ID, e.Children[1].ID}
	if diff := cmp.Diff([]string{"s1", "s2"}, gotIDs); diff != "" {
		t.Errorf("children order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBothShapesKeepsArticlesFirst(t *testing.T) {
	payload := `{"editions": [{"id": "e1", "stories": [{"id": "s1"}]}], "articles": [{"id": "a1"}, {"id": "a2"}]}`

	snap, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	var ids []string
	for _, it := range snap.Items {
		ids = append(ids, it.ID)
	}
	if diff := cmp.Diff([]string{"a1", "a2", "e1"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeStoriesPromoteToEdition(t *testing.T) {
	snap, err := Decode([]byte(`{"articles": [{"id": "x", "stories": [{"id": "c"}]}, {"id": "y", "type": "edition"}]}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for _, it := range snap.Items {
		if it.Kind != KindEdition {
			t.Errorf("item %s: expected edition, got %q", it.ID, it.Kind)
		}
	}
}

func TestDecodeMissingItemsIsEmpty(t *testing.T) {
	tests := []string{
		`{}`,
		`{"last_updated": "2026-10-17"}`,
		`null`,
	}
	for _, payload := range tests {
		snap, err := Decode([]byte(payload))
		if err != nil {
			t.Errorf("Decode(%s) failed: %v", payload, err)
			continue
		}
		if snap.Len() != 0 {
			t.Errorf("Decode(%s): expected empty snapshot, got %d items", payload, snap.Len())
		}
	}
}

func TestDecodeStrictRejectsMissingItems(t *testing.T) {
	tests := []string{
		`{}`,
		`null`,
		`{"last_updated": "2026-10-17"}`,
		`{"error": "No data found. Run the scraper first."}`,
		`{"error": "stale", "articles": [{"id": "a1"}]}`,
	}
	for _, payload := range tests {
		snap, err := DecodeStrict([]byte(payload))
		if !errors.Is(err, ErrNoItems) || !errors.Is(err, ErrParse) {
			t.Errorf("DecodeStrict(%s): expected ErrNoItems, got %v", payload, err)
		}
		if snap != nil {
			t.Errorf("DecodeStrict(%s): expected nil snapshot", payload)
		}
	}

	for _, payload := range []string{`{"articles": []}`, `{"editions": []}`} {
		snap, err := DecodeStrict([]byte(payload))
		if err != nil || snap.Len() != 0 {
			t.Errorf("DecodeStrict(%s) = %v, %v; want empty snapshot", payload, snap, err)
		}
	}
}

func TestDecodeDerivedIDsAreUnique(t *testing.T) {
	payload := []byte(`{"articles": [
		{"title": "Same title"},
		{"title": "Same title"},
		{"title": "One", "url": "https://example.com/shared"},
		{"title": "Two", "url": "https://example.com/shared"},
		{"title": "Parent", "url": "https://example.com/p", "stories": [
			{"title": "dup", "url": "https://example.com/c"},
			{"title": "dup", "url": "https://example.com/c"}
		]}
	]}`)

	snap, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	seen := map[string]int{}
	for _, it := range snap.Items {
		seen[it.ID]++
		for _, c := range it.Children {
			seen[c.ID]++
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %s issued %d times", id, n)
		}
	}
	if len(seen) != 7 {
		t.Errorf("expected 7 distinct ids, got %d", len(seen))
	}

	first, second := snap.Items[0].ID, snap.Items[1].ID
	if second != first+"-2" {
		t.Errorf("second occurrence = %q, want %q", second, first+"-2")
	}

	again, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(snap, again); diff != "" {
		t.Errorf("derived ids not stable across decodes (-first +second):\n%s", diff)
	}
}

func TestDecodeDerivedIDAvoidsSuppliedID(t *testing.T) {
	derived := stableID("https://example.com/a", "")
	payload := []byte(`{"articles": [{"url": "https://example.com/a"}, {"id": "` + derived + `"}]}`)

	snap, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if snap.Items[1].ID != derived {
		t.Errorf("supplied id changed: %q", snap.Items[1].ID)
	}
	if snap.Items[0].ID != derived+"-2" {
		t.Errorf("derived id = %q, want %q", snap.Items[0].ID, derived+"-2")
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []string{
		``,
		`   `,
		`{"articles": [`,
		`[1, 2, 3]`,
		`{"articles": {"id": "a1"}}`,
	}
	for _, payload := range tests {
		_, err := Decode([]byte(payload))
		if !errors.Is(err, ErrParse) {
			t.Errorf("Decode(%q): expected ErrParse, got %v", payload, err)
		}
	}
}

func TestDecodeDerivesStableIDs(t *testing.T) {
	payload := []byte(`{"articles": [{"title": "No id", "url": "https://example.com/a",
		"stories": [{"title": "child", "url": "https://example.com/c"}]}]}`)

	first, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	second, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if first.Items[0].ID == "" || first.Items[0].Children[0].ID == "" {
		t.Fatal("expected derived ids to be non-empty")
	}
	if first.Items[0].ID != second.Items[0].ID {
		t.Errorf("item id not stable: %s vs %s", first.Items[0].ID, second.Items[0].ID)
	}
	if first.Items[0].Children[0].ID != second.Items[0].Children[0].ID {
		t.Errorf("child id not stable")
	}
	if len(first.Items[0].ID) != 16 {
		t.Errorf("expected 16 char id, got %q", first.Items[0].ID)
	}
}

func TestDisplayText(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{"resume wins", Item{Resume: "r", Summary: "s"}, "r"},
		{"summary fallback", Item{Summary: "s"}, "s"},
		{"nothing", Item{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.DisplayText(); got != tt.want {
				t.Errorf("DisplayText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  plain   text\n here ", "plain text here"},
		{"<p>Hello <a href='x'>world</a></p>", "Hello world"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"<div>keep<script>alert(1)</script> this</div>", "keep this"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
