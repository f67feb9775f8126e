package recommend

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/libsys-io/libsys/errors"
)

// Options configures an Engine.
type Options struct {
	// ArtifactsDir holds the precomputed artifact files.
	ArtifactsDir string
	// FuzzyCutoff for the resolver's fuzzy tier; <= 0 uses the default.
	FuzzyCutoff float64
	// TopK is the default number of similar books; <= 0 uses 4.
	TopK int
	// TopListSize is the default top-list length; <= 0 uses 10.
	TopListSize int
}

// Default sizes preserved from the desktop application.
const (
	DefaultTopK        = 4
	DefaultTopListSize = 10
)

// Engine is one recommendation session. It owns the loaded artifacts:
// lazily loaded on first use, immutable afterwards, safe for concurrent
// lookups. A failed load leaves the engine unloaded and is retried on
// the next request.
type Engine struct {
	opts   Options
	logger *zap.SugaredLogger

	mu  sync.RWMutex
	art *artifacts
}

// NewEngine creates an unloaded Engine. Nothing is read from disk
// until the first request (or WarmUp).
func NewEngine(opts Options, logger *zap.SugaredLogger) *Engine {
	if opts.FuzzyCutoff <= 0 {
		opts.FuzzyCutoff = DefaultFuzzyCutoff
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.TopListSize <= 0 {
		opts.TopListSize = DefaultTopListSize
	}
	return &Engine{opts: opts, logger: logger}
}

// Recommendation is the result of a similar-books request.
type Recommendation struct {
	// Matched is the catalog title the query resolved to. Callers show
	// "showing results for X" when it differs from the query.
	Matched string
	Records []Record
}

// Recommend resolves query against the title index and returns up to
// topK similar books, enriched with author and cover metadata. A topK
// of 0 uses the configured default. A query that resolves to no title
// returns ErrNotFound so callers can tell "title unknown" apart from
// "found but nothing similar".
func (e *Engine) Recommend(ctx context.Context, query string, topK int) (*Recommendation, error) {
	art, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = e.opts.TopK
	}

	start := time.Now()
	match, err := art.index.Resolve(query, e.opts.FuzzyCutoff)
	if err != nil {
		return nil, err
	}

	ranked, err := Rank(match.Position, art.matrix, topK)
	if err != nil {
		// Resolve produced the position, so this is a defect.
		return nil, errors.Wrap(err, "ranking resolved position")
	}

	positions := make([]int, len(ranked))
	for i, r := range ranked {
		positions[i] = r.Position
	}
	records := Enrich(positions, art.index, art.sources)

	if e.logger != nil {
		e.logger.Debugw("recommendation computed",
			"query", query,
			"matched", match.Title,
			"position", match.Position,
			"results", len(records),
			"time_us", time.Since(start).Microseconds(),
		)
	}

	return &Recommendation{Matched: match.Title, Records: records}, nil
}

// Top returns the first k rows of the popularity table, enriched for
// images with the same source precedence as Recommend. The table is
// pre-sorted by the artifact; no re-sorting happens here. A k larger
// than the table returns every row.
func (e *Engine) Top(ctx context.Context, k int) ([]Record, error) {
	art, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = e.opts.TopListSize
	}
	if k > len(art.popular) {
		k = len(art.popular)
	}

	records := make([]Record, 0, k)
	for _, row := range art.popular[:k] {
		records = append(records, Record{
			Title:      row.Title,
			Author:     row.Author,
			ImageURL:   imageFor(row.Title, row.ImageURL, art.sources),
			NumRatings: row.NumRatings,
			AvgRating:  row.AvgRating,
		})
	}
	return records, nil
}

// WarmUp loads the artifacts in the background so the first interactive
// request is not blocked on disk I/O. Safe to call more than once.
func (e *Engine) WarmUp(ctx context.Context) {
	go func() {
		if _, err := e.load(ctx); err != nil && e.logger != nil {
			e.logger.Warnw("artifact warm-up failed", "error", err)
		}
	}()
}

// Refresh drops the loaded session so the next request reloads the
// artifacts from disk.
func (e *Engine) Refresh() {
	e.mu.Lock()
	e.art = nil
	e.mu.Unlock()
	if e.logger != nil {
		e.logger.Infow("recommendation session refreshed", "dir", e.opts.ArtifactsDir)
	}
}

// Loaded reports whether a session is currently loaded.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.art != nil
}

// load returns the current session, loading it on first use. A failed
// load keeps the engine unloaded; every call surfaces the error until
// a retry succeeds.
func (e *Engine) load(ctx context.Context) (*artifacts, error) {
	e.mu.RLock()
	art := e.art
	e.mu.RUnlock()
	if art != nil {
		return art, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.art != nil {
		return e.art, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	art, err := loadArtifacts(e.opts.ArtifactsDir)
	if err != nil {
		if e.logger != nil {
			e.logger.Errorw("artifact load failed",
				"dir", e.opts.ArtifactsDir,
				"error", err,
			)
		}
		return nil, err
	}

	e.art = art
	if e.logger != nil {
		e.logger.Infow("recommendation artifacts loaded",
			"dir", e.opts.ArtifactsDir,
			"titles", art.index.Len(),
			"popular_rows", len(art.popular),
			"sources", len(art.sources),
			"time_ms", time.Since(start).Milliseconds(),
		)
	}
	return art, nil
}
