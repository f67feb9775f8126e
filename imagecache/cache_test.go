package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/internal/httpclient"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return newWithClient(
		Options{Dir: t.TempDir(), FetchesPerSec: 1000},
		httpclient.New(time.Second, httpclient.Options{AllowPrivate: true}),
		zaptest.NewLogger(t).Sugar(),
	)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "https___img_example_com_covers_dune_jpg",
		cacheKey("https://img.example.com/covers/dune.jpg"))

	long := cacheKey("https://example.com/" + strings.Repeat("a", 500))
	assert.Len(t, long, maxKeyLen)
}

func TestGetFetchesAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		w.Write([]byte("cover-bytes"))
	}))
	defer srv.Close()

	c := newTestCache(t)
	ctx := context.Background()

	data, err := c.Get(ctx, srv.URL+"/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, "cover-bytes", string(data))

	// Second read is a disk hit.
	data, err = c.Get(ctx, srv.URL+"/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, "cover-bytes", string(data))
	assert.Equal(t, int64(1), hits.Load())
}

func TestGetFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestCache(t)
	_, err := c.Get(context.Background(), srv.URL+"/missing.jpg")
	assert.True(t, errors.Is(err, ErrFetch))

	_, err = c.Get(context.Background(), "")
	assert.True(t, errors.Is(err, ErrFetch))
}

func TestGetOrPlaceholderNeverFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestCache(t)
	data := c.GetOrPlaceholder(context.Background(), srv.URL+"/denied.jpg")
	assert.Equal(t, Placeholder(), data)
	assert.NotEmpty(t, data)
}

func TestGetAllPreservesOrderPastFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok:" + r.URL.Path))
	}))
	defer srv.Close()

	c := newTestCache(t)
	results := c.GetAll(context.Background(), []string{
		srv.URL + "/a.jpg",
		srv.URL + "/bad.jpg",
		srv.URL + "/b.jpg",
	})

	require.Len(t, results, 3)
	assert.Equal(t, "ok:/a.jpg", string(results[0]))
	assert.Equal(t, Placeholder(), results[1])
	assert.Equal(t, "ok:/b.jpg", string(results[2]))
}

func TestNewAcceptsNilLogger(t *testing.T) {
	c := New(Options{Dir: t.TempDir()}, nil)

	// Empty URL forces the failure path, which logs before falling
	// back to the placeholder.
	data := c.GetOrPlaceholder(context.Background(), "")
	assert.Equal(t, Placeholder(), data)
}

func TestAmazonHostDetection(t *testing.T) {
	assert.True(t, isAmazonHost("https://images-na.ssl-images-amazon.com/x.jpg"))
	assert.True(t, isAmazonHost("https://m.media-amazon.com/images/I/x.jpg"))
	assert.False(t, isAmazonHost("https://covers.openlibrary.org/x.jpg"))
}

func TestPlaceholderEmbedded(t *testing.T) {
	data := Placeholder()
	require.NotEmpty(t, data)
	// PNG signature
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}
