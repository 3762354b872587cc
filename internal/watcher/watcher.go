// Package watcher implements the Watcher (spec.md §4.7): it observes a
// root recursively via OS-native events, using github.com/fsnotify/fsnotify,
// and coalesces them into deterministic path batches. It never interprets
// event kinds — every touched path is simply marked dirty, and the
// Reconciler decides what happened by comparing content hashes against disk.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default drain interval (spec.md §4.7 --debounce-ms).
const DefaultDebounce = 500 * time.Millisecond

// WatcherBatch is one debounce drain's worth of dirty paths, lexicographically
// sorted (spec.md §4.7: "Batches contain only paths, never timestamps or
// event types").
type WatcherBatch struct {
	Paths []string
}

// Watcher observes root recursively and coalesces raw filesystem events into
// WatcherBatch values on a fixed debounce interval.
type Watcher struct {
	root      string
	debounce  time.Duration
	fsWatcher *fsnotify.Watcher
	batches   chan WatcherBatch
	wakeup    chan struct{} // bounded(1), non-blocking: spec.md §4.7 backpressure

	mu    sync.Mutex
	dirty map[string]struct{} // the BTreeSet<Path>; sorted at drain time
}

// New creates a Watcher rooted at root and starts watching every directory
// under it. debounce <= 0 uses DefaultDebounce.
func New(root string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:      root,
		debounce:  debounce,
		fsWatcher: fsw,
		batches:   make(chan WatcherBatch, 1),
		wakeup:    make(chan struct{}, 1),
		dirty:     make(map[string]struct{}),
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree registers a watch on dir and every subdirectory beneath it.
// fsnotify is not recursive, so new directories are picked up again as they
// are created (see handleEvent).
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best effort; an unreadable subtree is simply never watched
		}
		if d.IsDir() {
			if addErr := w.fsWatcher.Add(path); addErr != nil {
				slog.Warn("watcher.add_dir", "path", path, "err", addErr)
			}
		}
		return nil
	})
}

// Batches returns the channel the Pipeline receives drained batches on.
func (w *Watcher) Batches() <-chan WatcherBatch {
	return w.batches
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// Drain forces an immediate drain of whatever is currently dirty, used by
// the Pipeline right after the baseline scan completes (spec.md §4.8:
// "immediately after scan completion, drain any accumulated batch").
func (w *Watcher) Drain() {
	w.drain()
}

// Run blocks until ctx is cancelled, translating filesystem events into the
// dirty set and draining it into batches every debounce interval.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher.fsnotify_error", "err", err)
		case <-w.wakeup:
			// A path just went dirty: push the drain back out a full debounce
			// interval rather than draining immediately, so a rapid-write
			// storm coalesces into exactly one batch (spec.md §8 scenario 5)
			// instead of racing the ticker into draining mid-burst.
			ticker.Reset(w.debounce)
		case <-ticker.C:
			w.drain()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	w.markDirty(rel)

	if event.Has(fsnotify.Create) {
		if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
			if addErr := w.addTree(event.Name); addErr != nil {
				slog.Warn("watcher.add_new_dir", "path", event.Name, "err", addErr)
			}
		}
	}
}

func (w *Watcher) markDirty(relPath string) {
	w.mu.Lock()
	w.dirty[relPath] = struct{}{}
	w.mu.Unlock()

	select {
	case w.wakeup <- struct{}{}:
	default:
		// a drain is already pending; the signal is dropped, but relPath
		// stays in the dirty set so the next drain still sees it.
	}
}

// drain snapshots-and-clears the dirty set, sorts it, and hands it to the
// Pipeline. If the Pipeline has not yet consumed the previous batch the
// paths are merged back into the dirty set rather than dropped.
func (w *Watcher) drain() {
	w.mu.Lock()
	if len(w.dirty) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.dirty))
	for p := range w.dirty {
		paths = append(paths, p)
	}
	w.dirty = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(paths)

	select {
	case w.batches <- WatcherBatch{Paths: paths}:
	default:
		w.mu.Lock()
		for _, p := range paths {
			w.dirty[p] = struct{}{}
		}
		w.mu.Unlock()
	}
}
