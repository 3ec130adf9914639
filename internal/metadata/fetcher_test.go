package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/video-manager-go/internal/config"
)

func newTestFetcher(retries int) *Fetcher {
	f := NewFetcher(&config.FetchConfig{
		Timeout:    5 * time.Second,
		RateLimit:  1000,
		MaxRetries: retries,
		UserAgent:  "vidmgr-test",
	})
	f.backoff = time.Millisecond
	return f
}

func TestFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="Fetched Title">
			<meta itemprop="duration" content="PT5M">
		</head></html>`))
	}))
	defer srv.Close()

	md, err := newTestFetcher(0).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if md.Title != "Fetched Title" {
		t.Errorf("Title = %q, want %q", md.Title, "Fetched Title")
	}
	if md.Duration != "5:00" {
		t.Errorf("Duration = %q, want %q", md.Duration, "5:00")
	}
	if gotUA != "vidmgr-test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "vidmgr-test")
	}
}

func TestFetcher_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`<title>Second Try</title>`))
	}))
	defer srv.Close()

	md, err := newTestFetcher(2).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if md.Title != "Second Try" {
		t.Errorf("Title = %q, want %q", md.Title, "Second Try")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestFetcher_NonOKStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(1).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("Fetch() error = %v, want ErrStatus", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", calls.Load())
	}
}

func TestFetcher_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<title>x</title>`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestFetcher(0).Fetch(ctx, srv.URL); err == nil {
		t.Error("Fetch() with cancelled context expected error, got nil")
	}
}
