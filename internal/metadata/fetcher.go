package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/video-manager-go/internal/config"
	"github.com/user/video-manager-go/internal/metrics"
	"golang.org/x/time/rate"
)

// maxBodySize caps how much of a page is read
const maxBodySize = 4 << 20

// ErrStatus is returned for non-2xx responses
var ErrStatus = errors.New("unexpected HTTP status")

// Fetcher looks up page metadata over HTTP
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	parser     *Parser
	userAgent  string
	maxRetries int
	backoff    time.Duration
}

// NewFetcher creates a new Fetcher from configuration
func NewFetcher(cfg *config.FetchConfig) *Fetcher {
	transport := &http.Transport{
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
		Proxy:           http.ProxyFromEnvironment,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		// Token bucket, rate.Limit is events per second
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		parser:     NewParser(),
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Second,
	}
}

// Fetch downloads pageURL and extracts its metadata
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Metadata, error) {
	html, err := f.fetchWithRetry(ctx, pageURL)
	if err != nil {
		metrics.RecordMetadataFetch("error")
		return nil, err
	}

	md, err := f.parser.Parse(html)
	if err != nil {
		metrics.RecordMetadataFetch("error")
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	metrics.RecordMetadataFetch("success")
	log.Debug().
		Str("url", pageURL).
		Str("title", md.Title).
		Str("duration", md.Duration).
		Msg("Fetched page metadata")
	return md, nil
}

// fetchWithRetry fetches a URL with rate limiting and exponential backoff retry
func (f *Fetcher) fetchWithRetry(ctx context.Context, targetURL string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		html, err := f.fetch(ctx, targetURL)
		if err == nil {
			return html, nil
		}
		lastErr = err

		log.Warn().Err(err).Str("url", targetURL).Int("attempt", attempt+1).Msg("Metadata fetch failed")

		if attempt < f.maxRetries {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * f.backoff
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// fetch performs a single HTTP request
func (f *Fetcher) fetch(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request error: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body error: %w", err)
	}

	return string(body), nil
}
