package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"atlas-assistant/internal/atlas"
	"atlas-assistant/internal/contextutil"
)

const (
	// defaultWorkers bounds concurrent fetches so a long path list cannot
	// overwhelm the raw-content origin.
	defaultWorkers = 8
	// DefaultTimeout applies to each individual document fetch.
	DefaultTimeout = 10 * time.Second
)

// Failure records a path that could not be fetched. Failures are logged and
// never surfaced to the caller; they only shrink the corpus.
type Failure struct {
	Path string
	Err  error
}

// Fetcher retrieves raw atlas documents over HTTP.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	workers int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// WithTimeout sets the per-document fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) { f.timeout = timeout }
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll retrieves each configured path relative to baseURL. Fetches fan
// out concurrently, bounded by the worker limit, and are abandoned when ctx
// is cancelled. Successes come back in path order regardless of completion
// order; blank paths and failed fetches are skipped, with failures collected
// for logging.
func (f *Fetcher) FetchAll(ctx context.Context, baseURL string, paths []string) ([]atlas.Document, []Failure) {
	logger := contextutil.LoggerFromContext(ctx)
	base := strings.TrimSuffix(baseURL, "/")

	docs := make([]*atlas.Document, len(paths))
	failures := make([]*Failure, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		i, path := i, path
		g.Go(func() error {
			text, err := f.fetchOne(gctx, base, path)
			if err != nil {
				failures[i] = &Failure{Path: path, Err: err}
				return nil
			}
			docs[i] = &atlas.Document{Path: path, Text: text}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are collected per slot

	var fetched []atlas.Document
	var failed []Failure
	for i := range paths {
		if docs[i] != nil {
			fetched = append(fetched, *docs[i])
		}
		if failures[i] != nil {
			failed = append(failed, *failures[i])
			logger.WarnContext(ctx, "skipping atlas document", "path", failures[i].Path, "error", failures[i].Err)
		}
	}

	logger.InfoContext(ctx, "atlas documents fetched", "requested", len(paths), "fetched", len(fetched), "failed", len(failed))
	return fetched, failed
}

// fetchOne retrieves a single document as raw text.
func (f *Fetcher) fetchOne(ctx context.Context, base, path string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s", base, path)
	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch document: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("bad status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}
