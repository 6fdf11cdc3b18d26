package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses bursts of writes (editors, rsync) into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Reloader is what the watcher triggers.
type Reloader interface {
	Load(ctx context.Context, trigger string) error
}

// Watcher reloads the dataset when a watched CSV file changes. It watches the
// parent directories so atomic replace-by-rename is seen too.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	reloader Reloader
	files    map[string]struct{}
	debounce time.Duration
	logger   *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher over paths.
func NewWatcher(paths []string, reloader Reloader, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		watcher:  fw,
		reloader: reloader,
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
	}
	return w, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for d := range dirs {
		if err := w.watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
		w.logger.Info("Watching dataset directory", zap.String("dir", d))
	}

	w.running = true
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit. Safe to call
// after the context passed to Start was cancelled.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("Closing dataset watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("Dataset file changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Dataset watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := w.reloader.Load(ctx, TriggerWatch); err != nil {
				w.logger.Warn("Reload after file change failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
