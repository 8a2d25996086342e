// Package watcher reports changes to the documentation files the dashboard
// mirrors to its clients.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Kind classifies a file change.
type Kind int

const (
	// Changed means the file was written or created and can be read.
	Changed Kind = iota
	// Gone means the file was removed or renamed away. Editors that save by
	// replacing the file produce Gone followed by a new file at the path.
	Gone
)

func (k Kind) String() string {
	if k == Gone {
		return "gone"
	}
	return "changed"
}

// Event is a change to one watched file.
type Event struct {
	Path string
	Kind Kind
}

// Watcher turns fsnotify notifications for a fixed set of files into Events.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event

	mu    sync.RWMutex
	files map[string]struct{}
}

// New expands the doublestar patterns and watches every matching file.
// A pattern that matches nothing is logged, not an error: the dashboard
// can run before the coordinated project has its docs.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan Event, 256),
		files:  make(map[string]struct{}),
	}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			log.Printf("watcher: bad pattern %q: %v", pattern, err)
			continue
		}
		if len(matches) == 0 {
			log.Printf("watcher: pattern %q matched no files", pattern)
			continue
		}
		for _, m := range matches {
			if err := w.Watch(m); err != nil {
				log.Printf("watcher: cannot watch %s: %v", m, err)
			}
		}
	}

	return w, nil
}

// Watch adds path to the watched set. Watching a path again after it was
// replaced on disk re-arms the OS notification.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fsw.Add(abs); err != nil {
		return err
	}
	w.mu.Lock()
	w.files[abs] = struct{}{}
	w.mu.Unlock()
	return nil
}

// Paths returns the watched files in lexical order.
func (w *Watcher) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Start forwards changes until ctx is cancelled, then closes Events.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			kind, ok := classify(ev.Op)
			if !ok {
				continue
			}
			select {
			case w.Events <- Event{Path: ev.Name, Kind: kind}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// classify maps an fsnotify op onto a Kind. Chmod alone is ignored.
func classify(op fsnotify.Op) (Kind, bool) {
	switch {
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return Gone, true
	case op&(fsnotify.Write|fsnotify.Create) != 0:
		return Changed, true
	default:
		return 0, false
	}
}
