// FILE: lixenwraith/conftree/watch.go
package conftree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultMaxWatchers = 100 // Prevent resource exhaustion

// ChangeKind classifies a watch notification
type ChangeKind string

const (
	// ChangeValue reports a dotted path whose value was added, changed or removed
	ChangeValue ChangeKind = "value"
	// ChangeRemoved reports that a watched file disappeared; the cached document is kept
	ChangeRemoved ChangeKind = "file_removed"
	// ChangeReloadError reports a reload that failed; the cached document is kept
	ChangeReloadError ChangeKind = "reload_error"
)

// Change is one notification delivered to watch subscribers.
type Change struct {
	File string
	Kind ChangeKind
	Path string // set for ChangeValue
	Err  error  // set for ChangeReloadError
}

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// Debounce duration to avoid rapid reloads
	Debounce time.Duration

	// MaxWatchers limits concurrent subscriber channels
	MaxWatchers int

	// ReloadTimeout for file reload operations
	ReloadTimeout time.Duration
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce:      DefaultDebounce,
		MaxWatchers:   DefaultMaxWatchers,
		ReloadTimeout: DefaultReloadTimeout,
	}
}

// watcher manages file watching state of one cache
type watcher struct {
	mu             sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	opts           WatchOptions
	fs             *fsnotify.Watcher
	files          map[string]string // absolute path -> cache id
	dirs           map[string]bool
	watchers       map[int64]chan Change // subscriber channels
	watcherID      atomic.Int64
	debounceTimers map[string]*time.Timer
	reloading      sync.Map // cache id -> struct{}
	done           chan struct{}
}

// Watch starts reloading cached files when they change on disk. Documents
// loaded from text are not watched. Files loaded later are added
// automatically. Watching stops when ctx is cancelled or on StopWatching.
func (c *Cache) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Debounce < MinDebounce {
		opts.Debounce = MinDebounce
	}
	if opts.MaxWatchers <= 0 {
		opts.MaxWatchers = DefaultMaxWatchers
	}
	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = DefaultReloadTimeout
	}

	c.watchMutex.Lock()
	defer c.watchMutex.Unlock()

	if c.watcher != nil {
		return errors.New("cache is already watching")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &watcher{
		ctx:            wctx,
		cancel:         cancel,
		opts:           opts,
		fs:             fsw,
		files:          make(map[string]string),
		dirs:           make(map[string]bool),
		watchers:       make(map[int64]chan Change),
		debounceTimers: make(map[string]*time.Timer),
		done:           make(chan struct{}),
	}

	for _, id := range c.Names() {
		if err := w.add(id); err != nil {
			c.logger.Debug().Err(err).Str("file", id).Msg("Not watching configuration")
		}
	}

	c.watcher = w
	go w.processEvents(c)

	c.logger.Info().
		Int("files", len(w.files)).
		Msg("Started watching configuration files")
	return nil
}

// StopWatching stops the watcher and closes all subscriber channels.
func (c *Cache) StopWatching() error {
	c.watchMutex.Lock()
	w := c.watcher
	c.watcher = nil
	c.watchMutex.Unlock()

	if w == nil {
		return nil
	}
	return w.stop()
}

// IsWatching reports whether a watcher is running
func (c *Cache) IsWatching() bool {
	c.watchMutex.Lock()
	defer c.watchMutex.Unlock()
	return c.watcher != nil
}

// Subscribe returns a channel of change notifications. Without a running
// watcher, or beyond MaxWatchers, the returned channel is already closed.
func (c *Cache) Subscribe() <-chan Change {
	c.watchMutex.Lock()
	w := c.watcher
	c.watchMutex.Unlock()

	if w == nil {
		ch := make(chan Change)
		close(ch)
		return ch
	}
	return w.subscribe()
}

// WatcherCount returns the number of active subscriber channels
func (c *Cache) WatcherCount() int {
	c.watchMutex.Lock()
	w := c.watcher
	c.watchMutex.Unlock()

	if w == nil {
		return 0
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.watchers)
}

// watchLoaded adds a newly loaded file to a running watcher.
func (c *Cache) watchLoaded(id string) {
	c.watchMutex.Lock()
	w := c.watcher
	c.watchMutex.Unlock()

	if w == nil {
		return
	}
	if err := w.add(id); err != nil {
		c.logger.Debug().Err(err).Str("file", id).Msg("Not watching configuration")
	}
}

// add watches the directory of id so that rename-based saves are seen.
func (w *watcher) add(id string) error {
	abs, err := filepath.Abs(id)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", abs)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory '%s': %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = id
	return nil
}

// processEvents processes file system events and schedules reloads.
func (w *watcher) processEvents(c *Cache) {
	defer close(w.done)
	defer func() {
		_ = w.fs.Close()
		c.watchMutex.Lock()
		if c.watcher == w {
			c.watcher = nil
		}
		c.watchMutex.Unlock()
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}

			w.mu.RLock()
			id, tracked := w.files[filepath.Clean(event.Name)]
			w.mu.RUnlock()
			if !tracked {
				continue
			}

			c.logger.Debug().
				Str("file", id).
				Str("op", event.Op.String()).
				Msg("Configuration file changed")
			w.schedule(c, id)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			c.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

// schedule debounces rapid changes to one file.
func (w *watcher) schedule(c *Cache, id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.debounceTimers[id]; ok {
		timer.Stop()
	}
	w.debounceTimers[id] = time.AfterFunc(w.opts.Debounce, func() {
		w.performReload(c, id)
	})
}

// performReload reloads one file and publishes the paths that changed.
func (w *watcher) performReload(c *Cache, id string) {
	if w.ctx.Err() != nil {
		return
	}
	// Prevent concurrent reloads of the same file
	if _, busy := w.reloading.LoadOrStore(id, struct{}{}); busy {
		return
	}
	defer w.reloading.Delete(id)

	if _, err := os.Stat(id); errors.Is(err, os.ErrNotExist) {
		c.logger.Warn().Str("file", id).Msg("Watched configuration file removed")
		w.notifyWatchers(Change{File: id, Kind: ChangeRemoved})
		return
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.opts.ReloadTimeout)
	defer cancel()

	oldValues := c.snapshot(id)

	done := make(chan error, 1)
	go func() {
		_, err := c.Reload(id)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			w.notifyWatchers(Change{File: id, Kind: ChangeReloadError, Err: err})
			return
		}
		for _, path := range diffSnapshots(oldValues, c.snapshot(id)) {
			w.notifyWatchers(Change{File: id, Kind: ChangeValue, Path: path})
		}

	case <-ctx.Done():
		w.notifyWatchers(Change{File: id, Kind: ChangeReloadError, Err: ctx.Err()})
	}
}

// subscribe creates a new subscriber channel
func (w *watcher) subscribe() <-chan Change {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.watchers) >= w.opts.MaxWatchers || w.ctx.Err() != nil {
		ch := make(chan Change)
		close(ch)
		return ch
	}

	// Buffered so a slow subscriber does not block reloads
	ch := make(chan Change, 10)
	id := w.watcherID.Add(1)
	w.watchers[id] = ch

	go func() {
		<-w.ctx.Done()
		w.mu.Lock()
		delete(w.watchers, id)
		close(ch)
		w.mu.Unlock()
	}()

	return ch
}

// notifyWatchers sends a notification to all subscribers, dropping it for full channels
func (w *watcher) notifyWatchers(change Change) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, ch := range w.watchers {
		select {
		case ch <- change:
		default:
		}
	}
}

// stop terminates the watcher
func (w *watcher) stop() error {
	w.cancel()

	w.mu.Lock()
	for id, timer := range w.debounceTimers {
		timer.Stop()
		delete(w.debounceTimers, id)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
	case <-time.After(ShutdownTimeout):
		return w.fs.Close()
	}
	return nil
}

// snapshot flattens the cached document of id, or returns nil when it is not cached.
func (c *Cache) snapshot(id string) map[string]string {
	cfg, ok := c.Get(id)
	if !ok {
		return nil
	}
	cfg.doc.mutex.RLock()
	defer cfg.doc.mutex.RUnlock()
	return flattenTree(cfg.doc.root, "")
}

// diffSnapshots returns the sorted paths that were added, changed or removed.
func diffSnapshots(oldValues, newValues map[string]string) []string {
	var changed []string
	for path, newVal := range newValues {
		if oldVal, existed := oldValues[path]; !existed || oldVal != newVal {
			changed = append(changed, path)
		}
	}
	for path := range oldValues {
		if _, exists := newValues[path]; !exists {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}
