package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"community-resources-be/pkg/resource"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the raw content root of the published resource files.
const DefaultBaseURL = "https://raw.githubusercontent.com/mowaffak-alraiyes/refugee-resources/main/resources"

const maxBodyBytes = 8 << 20

var (
	errEmptyBody = errors.New("empty body")
	errTooLarge  = errors.New("body exceeds size limit")
)

// Config controls where raw text comes from and how long it is reused.
type Config struct {
	BaseURL  string
	LocalDir string
	TTL      time.Duration
	Timeout  time.Duration
}

// Result is the raw text of one category file.
type Result struct {
	Category resource.Category
	Text     string
	// Source is where this call got the text: remote, cache,
	// local-fallback or stale-cache.
	Source resource.Source
	// Origin is where the text was originally read from (remote or
	// local-fallback), also for cached results.
	Origin    resource.Source
	FetchedAt time.Time
	// RemoteErr holds the remote failure when a fallback was used.
	RemoteErr error
}

type entry struct {
	text      string
	origin    resource.Source
	fetchedAt time.Time
}

// Fetcher retrieves category text from the remote host, falling back to
// local copies, with a time-boxed cache in front.
type Fetcher struct {
	cfg    Config
	client *http.Client
	cache  *cache.Cache
	tracer trace.Tracer
	now    func() time.Time
}

// New creates a fetcher. A zero TTL or Timeout gets the defaults of five
// minutes and ten seconds.
func New(cfg Config) *Fetcher {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache.New(cfg.TTL, 2*cfg.TTL),
		tracer: otel.Tracer("community-resources/fetcher"),
		now:    time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (f *Fetcher) WithClock(now func() time.Time) *Fetcher {
	f.now = now
	return f
}

// URL is the remote location of a category file.
func (f *Fetcher) URL(c resource.Category) string {
	return strings.TrimRight(f.cfg.BaseURL, "/") + "/" + c.FileName()
}

// LocalPath is the fallback file of a category.
func (f *Fetcher) LocalPath(c resource.Category) string {
	return filepath.Join(f.cfg.LocalDir, c.FileName())
}

// Fetch returns the category text. A cached copy younger than the TTL is
// returned as is; otherwise the remote file is downloaded in full, and on
// any remote failure the local copy is read instead. Only when neither
// source nor any earlier copy is available does it fail, with a
// *resource.DataUnavailableError.
func (f *Fetcher) Fetch(ctx context.Context, c resource.Category) (Result, error) {
	ctx, span := f.tracer.Start(ctx, "fetcher.Fetch", trace.WithAttributes(attribute.String("category", string(c))))
	defer span.End()

	if e, ok := f.fresh(c); ok {
		span.SetAttributes(attribute.String("source", string(resource.SourceCache)))
		return Result{Category: c, Text: e.text, Source: resource.SourceCache, Origin: e.origin, FetchedAt: e.fetchedAt}, nil
	}

	text, remoteErr := f.fetchRemote(ctx, c)
	if remoteErr == nil {
		return f.store(span, c, text, resource.SourceRemote, nil), nil
	}
	span.RecordError(remoteErr)

	text, localErr := f.readLocal(c)
	if localErr == nil {
		return f.store(span, c, text, resource.SourceLocalFallback, remoteErr), nil
	}

	if x, ok := f.cache.Get(staleKey(c)); ok {
		e := x.(entry)
		span.SetAttributes(attribute.String("source", string(resource.SourceStaleCache)))
		return Result{Category: c, Text: e.text, Source: resource.SourceStaleCache, Origin: e.origin, FetchedAt: e.fetchedAt, RemoteErr: remoteErr}, nil
	}

	err := &resource.DataUnavailableError{
		Category: c,
		Cause:    fmt.Errorf("remote: %v; local: %w", remoteErr, localErr),
	}
	span.SetStatus(codes.Error, err.Error())
	return Result{}, err
}

// Invalidate drops the cached text of one category so the next Fetch goes
// to the network. The last known copy is kept as a rescue for total outages.
func (f *Fetcher) Invalidate(c resource.Category) {
	f.cache.Delete(freshKey(c))
}

// Flush drops every cached copy, including rescue copies.
func (f *Fetcher) Flush() {
	f.cache.Flush()
}

func (f *Fetcher) fresh(c resource.Category) (entry, bool) {
	x, ok := f.cache.Get(freshKey(c))
	if !ok {
		return entry{}, false
	}
	e := x.(entry)
	if f.now().Sub(e.fetchedAt) >= f.cfg.TTL {
		f.cache.Delete(freshKey(c))
		return entry{}, false
	}
	return e, true
}

func (f *Fetcher) store(span trace.Span, c resource.Category, text string, origin resource.Source, remoteErr error) Result {
	e := entry{text: text, origin: origin, fetchedAt: f.now()}
	f.cache.Set(freshKey(c), e, cache.DefaultExpiration)
	f.cache.Set(staleKey(c), e, cache.NoExpiration)
	span.SetAttributes(attribute.String("source", string(origin)), attribute.Int("bytes", len(text)))
	return Result{Category: c, Text: text, Source: origin, Origin: origin, FetchedAt: e.fetchedAt, RemoteErr: remoteErr}
}

// fetchRemote downloads the whole body or fails; a short read is an error.
func (f *Fetcher) fetchRemote(ctx context.Context, c resource.Category) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(c), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", f.URL(c), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("get %s: unexpected status %d", f.URL(c), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.URL(c), err)
	}
	if len(body) > maxBodyBytes {
		return "", errTooLarge
	}
	if resp.ContentLength >= 0 && int64(len(body)) != resp.ContentLength {
		return "", fmt.Errorf("read %s: got %d of %d bytes", f.URL(c), len(body), resp.ContentLength)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", errEmptyBody
	}
	return string(body), nil
}

func (f *Fetcher) readLocal(c resource.Category) (string, error) {
	if f.cfg.LocalDir == "" {
		return "", errors.New("no local directory configured")
	}
	b, err := os.ReadFile(f.LocalPath(c))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", errEmptyBody
	}
	return string(b), nil
}

func freshKey(c resource.Category) string { return "fresh:" + string(c) }
func staleKey(c resource.Category) string { return "stale:" + string(c) }
