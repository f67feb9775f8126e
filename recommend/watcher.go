package recommend

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/libsys-io/libsys/errors"
)

// ArtifactWatcher watches the artifacts directory and refreshes the
// engine when a file changes, so a regenerated similarity matrix or
// catalog is picked up without restarting the process.
type ArtifactWatcher struct {
	engine  *Engine
	watcher *fsnotify.Watcher
	logger  *zap.SugaredLogger

	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration

	done chan struct{}
}

// NewArtifactWatcher creates a watcher over the engine's artifacts
// directory. Call Start to begin watching and Close to stop.
func NewArtifactWatcher(engine *Engine, logger *zap.SugaredLogger) (*ArtifactWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	if err := watcher.Add(engine.opts.ArtifactsDir); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch artifacts dir %s", engine.opts.ArtifactsDir)
	}

	return &ArtifactWatcher{
		engine:  engine,
		watcher: watcher,
		logger:  logger,
		// Debounce: regenerating artifacts rewrites several files
		debouncePeriod: 500 * time.Millisecond,
		done:           make(chan struct{}),
	}, nil
}

// Start begins watching for artifact changes.
func (aw *ArtifactWatcher) Start() {
	go aw.watchLoop()
}

// Close stops the watcher.
func (aw *ArtifactWatcher) Close() error {
	close(aw.done)
	return aw.watcher.Close()
}

func (aw *ArtifactWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-aw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			aw.scheduleRefresh(event.Name)

		case err, ok := <-aw.watcher.Errors:
			if !ok {
				return
			}
			if aw.logger != nil {
				aw.logger.Warnw("artifact watcher error", "error", err)
			}

		case <-aw.done:
			return
		}
	}
}

func (aw *ArtifactWatcher) scheduleRefresh(changed string) {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	if aw.debounceTimer != nil {
		aw.debounceTimer.Stop()
	}
	aw.debounceTimer = time.AfterFunc(aw.debouncePeriod, func() {
		if aw.logger != nil {
			aw.logger.Infow("artifact change detected, refreshing session", "file", changed)
		}
		aw.engine.Refresh()
	})
}
