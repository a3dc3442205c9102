// Package watch monitors a directory tree for source changes, debouncing
// bursts of filesystem events into single notifications.
package watch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/signal-slot/mcp-codexreview/internal/scan"
)

// debounce is how long a file must stay quiet before a change is emitted.
const debounce = 200 * time.Millisecond

// Change is a detected modification in the watched tree.
type Change struct {
	// Path is relative to the watched root, slash-separated.
	Path string
}

// Watcher monitors a directory tree using fsnotify. Directories excluded
// from scans (VCS metadata, dependency trees, build output) are not watched.
type Watcher struct {
	Dir     string
	Changes <-chan Change // Read-only external channel

	changes chan Change // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given root directory.
func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	w := &Watcher{
		Dir:     dir,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start registers watches on the root and every non-excluded subdirectory,
// then begins delivering debounced changes.
func (w *Watcher) Start() error {
	err := filepath.WalkDir(w.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Dir && scan.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event time per file.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.emit(file)
				}
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
				pending[event.Name] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.emit(file)
					delete(pending, file)
				}
			}
		}
	}
}

func (w *Watcher) emit(file string) {
	rel, err := filepath.Rel(w.Dir, file)
	if err != nil {
		rel = file
	}
	select {
	case w.changes <- Change{Path: filepath.ToSlash(rel)}:
	default:
		// Drop when the consumer is behind; the next event catches up.
	}
}
