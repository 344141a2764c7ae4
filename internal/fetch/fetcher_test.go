package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abelbrown/briefing/internal/model"
)

const fallbackPayload = `{
  "last_updated": "2026-10-17T08:00:00Z",
  "articles": [
    {"id": "a1", "title": "Local models are back", "source": "Reddit", "url": "https://reddit.com/r/LocalLLaMA/a1"}
  ]
}`

const primaryPayload = `{
  "last_updated": "2026-10-17T09:00:00Z",
  "articles": [
    {"id": "n1", "title": "Weekly roundup", "source": "Ben's Bites", "url": "https://bensbites.com/n1"},
    {"id": "n2", "title": "Agents everywhere", "source": "The Rundown AI", "url": "https://therundown.ai/n2"}
  ]
}`

func TestLoadPrimary(t *testing.T) {
	var fallbackHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/feed":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(primaryPayload))
		case "/data.json":
			fallbackHits.Add(1)
			w.Write([]byte(fallbackPayload))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := New(Config{PrimaryURL: server.URL + "/api/feed", FallbackURL: "/data.json"})
	snap, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Len() != 2 || snap.Items[0].ID != "n1" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if fallbackHits.Load() != 0 {
		t.Error("fallback must not be requested when the primary succeeds")
	}
}

func TestLoadFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/feed":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/data.json":
			w.Write([]byte(fallbackPayload))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := New(Config{PrimaryURL: server.URL + "/api/feed", FallbackURL: "/data.json"})
	snap, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Len() != 1 || snap.Items[0].ID != "a1" {
		t.Errorf("expected fallback snapshot, got %+v", snap)
	}
	if !snap.Items[0].IsCommunity() {
		t.Error("fallback item should be a community item")
	}
}

func TestLoadFallsBackOnMalformedPrimary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data.json" {
			w.Write([]byte(fallbackPayload))
			return
		}
		w.Write([]byte(`{"articles": [`))
	}))
	defer server.Close()

	f := New(Config{PrimaryURL: server.URL + "/api/feed", FallbackURL: "/data.json"})
	snap, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Len() != 1 {
		t.Errorf("expected fallback to be used, got %d items", snap.Len())
	}
}

func TestLoadFallsBackOnPrimaryWithoutItems(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"error payload", `{"error": "No data found. Run the scraper first."}`},
		{"no item list", `{"last_updated": "2026-10-17T09:00:00Z"}`},
		{"error beside items", `{"error": "stale", "articles": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fallbackHits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/data.json" {
					fallbackHits.Add(1)
					w.Write([]byte(fallbackPayload))
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			f := New(Config{PrimaryURL: server.URL + "/api", FallbackURL: "/data.json"})
			snap, err := f.Load(context.Background())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if fallbackHits.Load() != 1 {
				t.Fatalf("fallback hits = %d, want 1", fallbackHits.Load())
			}
			if snap.Len() != 1 || snap.Items[0].ID != "a1" {
				t.Errorf("expected fallback snapshot, got %+v", snap)
			}
		})
	}
}

func TestLoadEmptyListIsSuccess(t *testing.T) {
	var fallbackHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data.json" {
			fallbackHits.Add(1)
			w.Write([]byte(fallbackPayload))
			return
		}
		w.Write([]byte(`{"last_updated": "2026-10-17T09:00:00Z", "articles": []}`))
	}))
	defer server.Close()

	f := New(Config{PrimaryURL: server.URL + "/api", FallbackURL: "/data.json"})
	snap, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap == nil || snap.Len() != 0 {
		t.Errorf("expected an empty primary snapshot, got %+v", snap)
	}
	if fallbackHits.Load() != 0 {
		t.Error("an empty item list is a valid primary response")
	}
}

func TestLoadBothWithoutItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "No data found"}`))
	}))
	defer server.Close()

	f := New(Config{PrimaryURL: server.URL + "/api", FallbackURL: "/data.json"})
	_, err := f.Load(context.Background())
	if !errors.Is(err, model.ErrNoItems) || !errors.Is(err, model.ErrParse) {
		t.Errorf("expected ErrNoItems wrapping ErrParse, got %v", err)
	}
}

func TestLoadBothFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data.json" {
			w.Write([]byte("not json"))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	f := New(Config{PrimaryURL: server.URL + "/api/feed", FallbackURL: "/data.json"})
	snap, err := f.Load(context.Background())
	if err == nil {
		t.Fatal("expected error when both sources fail")
	}
	if snap != nil {
		t.Error("expected nil snapshot")
	}
	if !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch from primary, got %v", err)
	}
	if !errors.Is(err, model.ErrParse) {
		t.Errorf("expected ErrParse from fallback, got %v", err)
	}
}

func TestLoadNoFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := New(Config{PrimaryURL: server.URL})
	if _, err := f.Load(context.Background()); !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
}

func TestLoadFallbackFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(fallbackPayload), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, fallback := range []string{path, "file://" + path} {
		f := New(Config{PrimaryURL: "http://127.0.0.1:1/unreachable", FallbackURL: fallback})
		snap, err := f.Load(context.Background())
		if err != nil {
			t.Fatalf("fallback %q: %v", fallback, err)
		}
		if snap.Len() != 1 {
			t.Errorf("fallback %q: expected 1 item, got %d", fallback, snap.Len())
		}
	}
}

func TestLoadRSS(t *testing.T) {
	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Reddit</title>
    <item>
      <title>Article 1</title>
      <link>http://example.com/article1</link>
      <description>First article</description>
    </item>
  </channel>
</rss>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rss))
	}))
	defer server.Close()

	snap, err := New(Config{PrimaryURL: server.URL}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Len() != 1 || snap.Items[0].Title != "Article 1" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestLoadTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := New(Config{PrimaryURL: server.URL, Timeout: 50 * time.Millisecond})
	if _, err := f.Load(context.Background()); !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch on timeout, got %v", err)
	}
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Config{PrimaryURL: "http://127.0.0.1:1/", FallbackURL: filepath.Join(t.TempDir(), "data.json")})
	if _, err := f.Load(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestResolveFallback(t *testing.T) {
	tests := []struct {
		primary, fallback, want string
	}{
		{"http://localhost:8787/api/feed", "/data.json", "http://localhost:8787/data.json"},
		{"https://example.com/a/b?x=1", "/data.json", "https://example.com/data.json"},
		{"http://localhost:8787/api", "https://cdn.example.com/data.json", "https://cdn.example.com/data.json"},
		{"http://localhost:8787/api", "file:///srv/data.json", "file:///srv/data.json"},
		{"http://localhost:8787/api", "./data.json", "./data.json"},
		{"", "/srv/data.json", "/srv/data.json"},
		{"http://localhost:8787/api", "", ""},
	}
	for _, tt := range tests {
		if got := ResolveFallback(tt.primary, tt.fallback); got != tt.want {
			t.Errorf("ResolveFallback(%q, %q) = %q, want %q", tt.primary, tt.fallback, got, tt.want)
		}
	}
}

func TestNewDropsFallbackEqualToPrimary(t *testing.T) {
	f := New(Config{PrimaryURL: "http://localhost:8787/data.json", FallbackURL: "/data.json"})
	if f.Fallback() != "" {
		t.Errorf("Fallback() = %q, want it dropped", f.Fallback())
	}

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f = New(Config{PrimaryURL: server.URL + "/data.json", FallbackURL: "/data.json"})
	if _, err := f.Load(context.Background()); !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("primary requested %d times, want 1", hits.Load())
	}
}
