package store

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"authloop/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the time to wait after the last change before
// notifying. A tmp-file write followed by a rename produces several events.
const DefaultDebounceInterval = 200 * time.Millisecond

// Watcher reports changes to a FileStore's record file made by this or any
// other process. It watches the parent directory so that the file may be
// created, replaced by rename or removed while being watched.
type Watcher struct {
	mu sync.Mutex

	path     string
	debounce time.Duration
	onChange func()

	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	running   bool

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher creates a watcher for the record file of s. onChange is invoked
// from a timer goroutine once changes settle.
func NewWatcher(s *FileStore, onChange func()) *Watcher {
	return &Watcher{
		path:     s.Path(),
		debounce: DefaultDebounceInterval,
		onChange: onChange,
	}
}

// Start begins watching. The store directory is created if it does not exist.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	w.fsWatcher = watcher
	w.stopCh = make(chan struct{})
	w.running = true

	// Capture channels before releasing the lock to avoid racing with Stop().
	go w.processEvents(watcher.Events, watcher.Errors, w.stopCh)

	logging.Debug("Watcher", "Watching %s", w.path)
	return nil
}

func (w *Watcher) processEvents(eventsCh <-chan fsnotify.Event, errorsCh <-chan error, stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logging.Debug("Watcher", "Record file changed: %s", event.Op)
			w.triggerDebounced()

		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("Watcher", err, "fsnotify error")
		}
	}
}

func (w *Watcher) triggerDebounced() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		running := w.running
		w.mu.Unlock()

		if running && w.onChange != nil {
			w.onChange()
		}
	})
}

// Stop ends watching. Pending notifications are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMu.Unlock()

	err := w.fsWatcher.Close()
	w.fsWatcher = nil
	return err
}
