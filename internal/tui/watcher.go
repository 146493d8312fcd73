package tui

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/redlinehq/redline/internal/core/logging"
)

// sourceChangedMsg is sent when a reviewable document changes on disk.
type sourceChangedMsg struct {
	path string
}

// SourceWatcher watches the documents root for changes to reviewable files.
type SourceWatcher struct {
	watcher     *fsnotify.Watcher
	root        string
	debounceDur time.Duration
}

// NewSourceWatcher creates a watcher over the documents root.
func NewSourceWatcher(root string) (*SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &SourceWatcher{
		watcher:     watcher,
		root:        root,
		debounceDur: 100 * time.Millisecond,
	}

	if err := w.addRecursive(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return w, nil
}

// Start returns a command that blocks until the next relevant change.
func (w *SourceWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}

				if w.shouldIgnore(event.Name) {
					continue
				}

				// New directories need to be watched too
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = w.addRecursive(event.Name)
						continue
					}
				}

				// Debounce: wait for changes to settle, then drain
				time.Sleep(w.debounceDur)
				drained := false
				for !drained {
					select {
					case <-w.watcher.Events:
					default:
						drained = true
					}
				}

				return sourceChangedMsg{path: event.Name}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				// Keep watching on transient errors
				logger := logging.Component("watcher")
				logger.Debug().Err(err).Msg("watch error")
			}
		}
	}
}

// addRecursive adds a directory and all its subdirectories to the watcher.
func (w *SourceWatcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip directories we can't read
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != path {
				return filepath.SkipDir
			}
			return w.watcher.Add(p)
		}
		return nil
	})
}

// shouldIgnore returns true if the file should be ignored.
func (w *SourceWatcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	for _, ext := range []string{".tmp", ".lock", ".swp", ".swx", "~"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}

	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".txt" && ext != "" {
		return true
	}

	return false
}

// Close stops the watcher.
func (w *SourceWatcher) Close() error {
	return w.watcher.Close()
}
