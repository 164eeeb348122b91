// Package watch observes the config path and triggers a debounced reload
// through the rule Store, as a standalone, reusable, and independently
// testable component rather than inline logic in the CLI entrypoint.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"popshop/config"
	mslogger "popshop/logger"
	"popshop/store"
)

const debounceDelay = 500 * time.Millisecond

// Watcher observes configPath (a file or a directory) and, on a debounced
// change, reloads via config.Load and calls store.Replace on success. A
// failed reload logs the error and leaves the current rule set intact, so a
// syntax error mid-edit never takes a running server's rules down.
type Watcher struct {
	configPath string
	store      *store.Store
	fsWatcher  *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	// state is one of idle/pending/reloading, tracked only for
	// observability through State.
	state string
}

// New builds a Watcher for configPath, backed by st. Call Start to begin
// watching; Start closes the underlying fsnotify watcher when it returns,
// so the caller shuts the Watcher down by closing the stop channel.
func New(configPath string, st *store.Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start config watcher: %w", err)
	}

	w := &Watcher{configPath: configPath, store: st, fsWatcher: fsw, state: "idle"}

	info, err := os.Stat(configPath)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to stat config path: %w", err)
	}

	if info.IsDir() {
		if err := fsw.Add(configPath); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch config directory: %w", err)
		}
	} else {
		// Watch the containing directory, not the file itself: editors
		// that save via rename-over-write replace the inode, which would
		// silently drop a watch registered on the file path directly.
		if err := fsw.Add(filepath.Dir(configPath)); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch config file: %w", err)
		}
	}

	return w, nil
}

// Start runs the watch loop until stop is closed. It blocks; call it from
// its own goroutine.
func (w *Watcher) Start(stop <-chan struct{}) {
	defer w.fsWatcher.Close()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			mslogger.LogError(fmt.Sprintf("config watcher error: %v", err))

		case <-stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Delete events are ignored: a temporary rename-over-write must not
	// blank the config.
	if event.Op&fsnotify.Remove == fsnotify.Remove {
		return
	}

	if !w.relevant(event.Name) {
		return
	}

	isMutation := event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
	if !isMutation {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = "pending"
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.reload)
}

// relevant reports whether a filesystem event path is one the watcher
// should react to: the watched file itself, or (for directory watches) any
// .yaml/.yml child.
func (w *Watcher) relevant(path string) bool {
	info, err := os.Stat(w.configPath)
	isDir := err == nil && info.IsDir()

	if !isDir {
		return filepath.Clean(path) == filepath.Clean(w.configPath)
	}

	if filepath.Dir(path) != filepath.Clean(w.configPath) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// reload is invoked once the debounce timer elapses. While reloading,
// further events still buffer on fsWatcher.Events and trigger another
// debounce cycle afterward, coalescing bursts of saves into one reload.
func (w *Watcher) reload() {
	w.mu.Lock()
	w.state = "reloading"
	w.mu.Unlock()

	mslogger.LogWarn("config file changed, reloading rules...")

	newList, err := config.Load(w.configPath)
	if err != nil {
		mslogger.LogError(fmt.Sprintf("config reload failed, keeping previous rules: %v", err))
		w.mu.Lock()
		w.state = "idle"
		w.mu.Unlock()
		return
	}

	w.store.Replace(newList)
	total, mock, proxy := newList.Counts()
	mslogger.LogSuccess(fmt.Sprintf("rules reloaded: %d total (%d mock, %d proxy)", total, mock, proxy))

	w.mu.Lock()
	w.state = "idle"
	w.mu.Unlock()
}

// State reports the watcher's current idle/pending/reloading state.
func (w *Watcher) State() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}
