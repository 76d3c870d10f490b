package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestHTTPProviderFetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	cache := filepath.Join(t.TempDir(), "raw", "yx.csv")
	p := NewHTTPProvider(srv.URL, cache)
	ctx := context.Background()

	obs, err := p.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(obs) != 4 {
		t.Fatalf("Fetch returned %d rows, want 4", len(obs))
	}
	if hits.Load() != 1 {
		t.Fatalf("server hit %d times, want 1", hits.Load())
	}
	if _, err := os.Stat(cache); err != nil {
		t.Fatalf("cache file missing after download: %v", err)
	}

	// Second fetch must come from the cache.
	if _, err := p.Fetch(ctx); err != nil {
		t.Fatalf("second Fetch returned error: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("second Fetch hit the network, total hits %d", hits.Load())
	}

	// Refresh discards the cache and downloads again.
	if err := p.Refresh(); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if _, err := p.Fetch(ctx); err != nil {
		t.Fatalf("Fetch after Refresh returned error: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("Fetch after Refresh hit the network %d times total, want 2", hits.Load())
	}
}

func TestHTTPProviderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cache := filepath.Join(t.TempDir(), "yx.csv")
	p := NewHTTPProvider(srv.URL, cache)
	p.retryDelay = 0

	if _, err := p.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch should fail on a persistent server error")
	}
	if _, err := os.Stat(cache); !os.IsNotExist(err) {
		t.Error("failed download must not leave a cache file behind")
	}
}

func TestHTTPProviderNoSource(t *testing.T) {
	p := NewHTTPProvider("", filepath.Join(t.TempDir(), "missing.csv"))
	if _, err := p.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch with no URL and no cache should fail")
	}
}
