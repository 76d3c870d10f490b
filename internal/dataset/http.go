package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"salesprep/internal/domain"
	"salesprep/internal/util"
)

// Compile-time interface check.
var _ Provider = (*HTTPProvider)(nil)

// HTTPProvider downloads the raw sales CSV over HTTP and caches it on
// disk. Later runs parse the cached file without touching the network.
type HTTPProvider struct {
	url        string
	cachePath  string
	client     *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

// NewHTTPProvider creates an HTTPProvider fetching from url and caching
// the raw file at cachePath.
func NewHTTPProvider(url, cachePath string) *HTTPProvider {
	return &HTTPProvider{
		url:        url,
		cachePath:  cachePath,
		client:     &http.Client{Timeout: 60 * time.Second},
		retryDelay: 2 * time.Second,
		log:        slog.Default().With("provider", "http"),
	}
}

// Name returns the provider identifier.
func (p *HTTPProvider) Name() string { return "http" }

// Refresh removes the cached file so the next Fetch downloads again.
func (p *HTTPProvider) Refresh() error {
	err := os.Remove(p.cachePath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Fetch returns all raw observations, downloading the source file first if
// it is not already cached.
func (p *HTTPProvider) Fetch(ctx context.Context) ([]domain.Observation, error) {
	if _, err := os.Stat(p.cachePath); os.IsNotExist(err) {
		if p.url == "" {
			return nil, fmt.Errorf("no cached dataset at %s and no URL configured", p.cachePath)
		}
		if err := p.download(ctx); err != nil {
			return nil, fmt.Errorf("downloading %s: %w", p.url, err)
		}
	} else {
		p.log.Info("using cached dataset", "path", p.cachePath)
	}

	f, err := os.Open(p.cachePath)
	if err != nil {
		return nil, fmt.Errorf("opening cached dataset: %w", err)
	}
	defer f.Close()

	obs, err := ParseCSV(f)
	if err != nil {
		return nil, err
	}
	p.log.Info("parsed raw dataset", "path", p.cachePath, "rows", len(obs))
	return obs, nil
}

// download fetches the source file with retries and writes it atomically
// to the cache path.
func (p *HTTPProvider) download(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(p.cachePath), 0o755); err != nil {
		return err
	}

	p.log.Info("downloading dataset", "url", p.url, "dest", p.cachePath)
	return util.Retry(ctx, 3, p.retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
		if err != nil {
			return err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %s", resp.Status)
		}

		tmp := p.cachePath + ".tmp"
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
		if err := f.Close(); err != nil {
			os.Remove(tmp)
			return err
		}
		return os.Rename(tmp, p.cachePath)
	})
}
