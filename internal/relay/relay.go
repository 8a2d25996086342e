// Package relay forwards watched file changes to push subscribers.
package relay

import (
	"context"
	"crypto/sha256"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atikulmunna/agentlog/internal/model"
	"github.com/atikulmunna/agentlog/internal/watcher"
)

// Publisher receives file-update events.
type Publisher interface {
	Publish(ev model.Event)
}

// Relay reads a watched file whenever it changes and publishes its full
// content. Content identical to the last publish for that path is skipped.
type Relay struct {
	mu        sync.Mutex
	last      map[string][sha256.Size]byte
	events    <-chan watcher.Event
	watch     *watcher.Watcher
	publisher Publisher
	now       func() time.Time

	retries    int
	retryDelay time.Duration
}

// New creates a Relay fed by the given Watcher.
func New(w *watcher.Watcher, p Publisher) *Relay {
	return &Relay{
		last:       make(map[string][sha256.Size]byte),
		events:     w.Events,
		watch:      w,
		publisher:  p,
		now:        time.Now,
		retries:    5,
		retryDelay: time.Second,
	}
}

// Start processes watcher events. Blocks until the context is cancelled
// or the watcher stops.
func (r *Relay) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-r.events:
			if !ok {
				return
			}
			r.handleEvent(ctx, ev)
		}
	}
}

// handleEvent dispatches watcher events to the appropriate handler.
func (r *Relay) handleEvent(ctx context.Context, ev watcher.Event) {
	switch ev.Kind {
	case watcher.Changed:
		log.Printf("[WATCHER] file changed: %s", ev.Path)
		r.publishFile(ev.Path)

	case watcher.Gone:
		// Editors often replace files with rename; re-watch once it is back.
		go r.reconnect(ctx, ev.Path)
	}
}

// publishFile reads path and publishes it unless the content is unchanged.
func (r *Relay) publishFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("relay: cannot read %s: %v", path, err)
		return false
	}

	sum := sha256.Sum256(data)
	r.mu.Lock()
	if prev, ok := r.last[path]; ok && prev == sum {
		r.mu.Unlock()
		return false
	}
	r.last[path] = sum
	r.mu.Unlock()

	r.publisher.Publish(model.Event{
		Name: model.EventFileUpdate,
		Data: model.FileUpdate{
			File:      filepath.Base(path),
			Content:   string(data),
			Timestamp: r.now().UTC().Format(time.RFC3339Nano),
		},
	})
	return true
}

// reconnect polls for a replaced file to reappear, then re-watches and
// publishes it.
func (r *Relay) reconnect(ctx context.Context, path string) {
	for i := 0; i < r.retries; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.retryDelay):
		}
		if _, err := os.Stat(path); err == nil {
			log.Printf("relay: re-watching replaced file %s", path)
			if err := r.watch.Watch(path); err != nil {
				log.Printf("relay: re-watch %s failed: %v", path, err)
			}
			r.publishFile(path)
			return
		}
	}
	log.Printf("relay: gave up on %s after %d retries", path, r.retries)
}
