// Package fetch loads the dashboard snapshot from a primary endpoint and,
// when that fails, from a fallback resource.
//
// A fallback is either an HTTP(S) URL, a path relative to the primary
// origin ("/data.json"), a file:// URL, or a plain filesystem path.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/briefing/internal/model"
	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
)

// ErrFetch wraps every transport failure and every non-2xx response.
var ErrFetch = errors.New("fetch failed")

const defaultUserAgent = "briefing/1.0 (+https://github.com/abelbrown/briefing)"

// Config describes where a snapshot comes from.
type Config struct {
	PrimaryURL  string
	FallbackURL string
	// Timeout bounds each request. Zero means no timeout.
	Timeout   time.Duration
	UserAgent string
	Logger    *log.Logger
}

// Fetcher retrieves snapshots. Safe for concurrent use.
type Fetcher struct {
	client   *resty.Client
	primary  string
	fallback string
	log      *log.Logger
}

// New creates a Fetcher. The fallback is resolved against the primary
// origin once, here.
func New(cfg Config) *Fetcher {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client.SetHeader("User-Agent", ua)
	client.SetHeader("Accept", "application/json, application/rss+xml, application/atom+xml;q=0.9, */*;q=0.5")

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	f := &Fetcher{
		client:   client,
		primary:  strings.TrimSpace(cfg.PrimaryURL),
		fallback: ResolveFallback(cfg.PrimaryURL, cfg.FallbackURL),
		log:      logger.WithPrefix("fetch"),
	}
	if f.fallback != "" && f.fallback == f.primary {
		// Retrying the same request is not a fallback.
		f.log.Warn("fallback resolves to the primary, ignoring it", "url", f.primary)
		f.fallback = ""
	}
	return f
}

// Primary returns the primary endpoint.
func (f *Fetcher) Primary() string { return f.primary }

// Fallback returns the resolved fallback location.
func (f *Fetcher) Fallback() string { return f.fallback }

// Load tries the primary endpoint and, on any failure, the fallback.
// Decode failures count as failures too, including a well-formed payload
// with no item list such as {"error": "..."}. When both sources fail the
// returned error joins both causes.
func (f *Fetcher) Load(ctx context.Context) (*model.Snapshot, error) {
	start := time.Now()

	snap, primaryErr := f.loadFrom(ctx, f.primary)
	if primaryErr == nil {
		f.log.Debug("loaded primary", "url", f.primary, "items", snap.Len(), "took", time.Since(start))
		return snap, nil
	}
	f.log.Warn("primary failed, trying fallback", "url", f.primary, "err", primaryErr)

	if f.fallback == "" {
		return nil, fmt.Errorf("primary: %w", primaryErr)
	}

	snap, fallbackErr := f.loadFrom(ctx, f.fallback)
	if fallbackErr == nil {
		f.log.Info("loaded fallback", "source", f.fallback, "items", snap.Len(), "took", time.Since(start))
		return snap, nil
	}
	f.log.Error("fallback failed", "source", f.fallback, "err", fallbackErr)

	return nil, errors.Join(
		fmt.Errorf("primary: %w", primaryErr),
		fmt.Errorf("fallback: %w", fallbackErr),
	)
}

func (f *Fetcher) loadFrom(ctx context.Context, location string) (*model.Snapshot, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: no source configured", ErrFetch)
	}

	var (
		body []byte
		err  error
	)
	if path, ok := localPath(location); ok {
		body, err = readFile(ctx, path)
	} else {
		body, err = f.get(ctx, location)
	}
	if err != nil {
		return nil, err
	}
	return model.DecodeStrict(body)
}

func (f *Fetcher) get(ctx context.Context, location string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetch, location, resp.StatusCode())
	}
	return resp.Body(), nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return data, nil
}

// ResolveFallback turns a configured fallback into a fetchable location.
// Absolute URLs, file:// URLs and filesystem paths pass through. A value
// starting with "/" is joined to the primary origin when the primary is
// an HTTP(S) URL, otherwise it is treated as a filesystem path.
func ResolveFallback(primary, fallback string) string {
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return ""
	}

	fb, err := url.Parse(fallback)
	if err != nil || fb.IsAbs() {
		return fallback
	}
	if !strings.HasPrefix(fallback, "/") {
		return fallback
	}

	base, err := url.Parse(strings.TrimSpace(primary))
	if err != nil || !isHTTP(base) {
		return fallback
	}
	return base.ResolveReference(fb).String()
}

// localPath reports whether location names a file on disk.
func localPath(location string) (string, bool) {
	u, err := url.Parse(location)
	if err != nil {
		return location, true
	}
	switch {
	case u.Scheme == "file":
		if u.Host != "" && u.Host != "localhost" {
			return "//" + u.Host + u.Path, true
		}
		return u.Path, true
	case isHTTP(u):
		return "", false
	case u.Scheme == "":
		return location, true
	default:
		// Windows drive letters parse as a one-letter scheme.
		if len(u.Scheme) == 1 {
			return location, true
		}
		return "", false
	}
}

func isHTTP(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
