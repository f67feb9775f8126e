// Package imagecache fetches and caches book cover images on disk.
// Cover URLs come from catalog artifacts and often point at hosts that
// refuse non-browser clients, so fetches carry browser-like headers
// and Amazon-hosted covers get a Referer retry on 403.
package imagecache

import (
	"context"
	_ "embed"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/internal/httpclient"
)

// ErrFetch marks cover download failures. GetOrPlaceholder swallows
// it; Get surfaces it for callers that want the distinction.
var ErrFetch = errors.New("cover fetch failed")

//go:embed assets/placeholder.png
var placeholder []byte

// Placeholder returns the embedded fallback cover bytes.
func Placeholder() []byte {
	return placeholder
}

const (
	// DefaultTimeout bounds one cover download.
	DefaultTimeout = 10 * time.Second
	// DefaultFetchesPerSec is the outbound rate cap.
	DefaultFetchesPerSec = 5
	// maxKeyLen caps the sanitized cache filename.
	maxKeyLen = 200
	// maxCoverBytes caps one downloaded cover.
	maxCoverBytes = 10 << 20

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Options configures a Cache.
type Options struct {
	// Dir is the on-disk cache directory, created on first use.
	Dir string
	// Timeout per fetch; <= 0 uses the default.
	Timeout time.Duration
	// FetchesPerSec caps outbound requests; <= 0 uses the default.
	FetchesPerSec float64
}

// Cache is a disk-backed cover cache. Safe for concurrent use; hits
// never touch the network.
type Cache struct {
	dir     string
	client  *httpclient.Client
	limiter *rate.Limiter
	logger  *zap.SugaredLogger

	// upgradeHTTP rewrites http:// cover URLs to https:// before
	// fetching. Off only under test, where servers are plain HTTP.
	upgradeHTTP bool

	mkdir sync.Once
}

// New creates a Cache over opts.Dir. A nil logger disables logging.
func New(opts Options, logger *zap.SugaredLogger) *Cache {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.FetchesPerSec <= 0 {
		opts.FetchesPerSec = DefaultFetchesPerSec
	}
	burst := int(opts.FetchesPerSec)
	if burst < 1 {
		burst = 1
	}
	return &Cache{
		dir:         opts.Dir,
		client:      httpclient.New(opts.Timeout, httpclient.Options{}),
		limiter:     rate.NewLimiter(rate.Limit(opts.FetchesPerSec), burst),
		logger:      logger,
		upgradeHTTP: true,
	}
}

// newWithClient is the test seam: httptest servers live on loopback,
// which the production client refuses, and speak plain HTTP.
func newWithClient(opts Options, client *httpclient.Client, logger *zap.SugaredLogger) *Cache {
	c := New(opts, logger)
	c.client = client
	c.upgradeHTTP = false
	return c
}

// Get returns the cover bytes for url, from cache when possible. A
// failed download yields ErrFetch.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.Mark(errors.New("empty cover URL"), ErrFetch)
	}

	path := filepath.Join(c.dir, cacheKey(url))
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	data, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	c.mkdir.Do(func() {
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			c.logger.Warnw("failed to create cover cache dir", "dir", c.dir, "error", err)
		}
	})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		// Serving beats caching: return the bytes anyway.
		c.logger.Warnw("failed to cache cover", "url", url, "error", err)
	}
	return data, nil
}

// GetOrPlaceholder returns the cover bytes for url, or the embedded
// placeholder when anything fails. It never returns an error.
func (c *Cache) GetOrPlaceholder(ctx context.Context, url string) []byte {
	data, err := c.Get(ctx, url)
	if err != nil {
		c.logger.Debugw("serving placeholder cover", "url", url, "error", err)
		return placeholder
	}
	return data
}

// GetAll fetches every URL concurrently, preserving input order. A
// failed fetch yields the placeholder in its slot; one failure never
// aborts the batch.
func (c *Cache) GetAll(ctx context.Context, urls []string) [][]byte {
	results := make([][]byte, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			results[i] = c.GetOrPlaceholder(ctx, url)
		}(i, url)
	}
	wg.Wait()
	return results
}

func (c *Cache) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Mark(err, ErrFetch)
	}

	// Cover hosts redirect plain HTTP anyway; skip the hop.
	if c.upgradeHTTP && strings.HasPrefix(url, "http://") {
		url = "https://" + strings.TrimPrefix(url, "http://")
	}

	data, status, err := c.fetchOnce(ctx, url, "")
	if status == http.StatusForbidden && isAmazonHost(url) {
		// Amazon image hosts sometimes demand a storefront Referer.
		data, status, err = c.fetchOnce(ctx, url, "https://www.amazon.com/")
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "fetch %s", url), ErrFetch)
	}
	if status != http.StatusOK {
		return nil, errors.Mark(errors.Newf("fetch %s: status %d", url, status), ErrFetch)
	}
	return data, nil
}

func (c *Cache) fetchOnce(ctx context.Context, url, referer string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/*,*/*;q=0.8")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

func isAmazonHost(url string) bool {
	return strings.Contains(url, "amazon.com") || strings.Contains(url, "media-amazon")
}

// cacheKey maps a URL to a filesystem-safe filename: every byte
// outside [A-Za-z0-9] becomes '_', capped at maxKeyLen.
func cacheKey(url string) string {
	var b strings.Builder
	for _, r := range url {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		if b.Len() >= maxKeyLen {
			break
		}
	}
	return b.String()
}
