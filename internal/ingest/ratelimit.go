package ingest

import (
	"sync"
	"time"
)

// Limiter admits up to quota calls per source in fixed windows. The number
// of tracked sources is capped at maxKeys.
type Limiter struct {
	mu      sync.Mutex
	quota   int
	window  time.Duration
	maxKeys int
	now     func() time.Time
	windows map[string]*fixedWindow
}

type fixedWindow struct {
	start time.Time
	count int
}

// NewLimiter creates a Limiter. now defaults to time.Now.
func NewLimiter(quota int, window time.Duration, maxKeys int, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		quota:   quota,
		window:  window,
		maxKeys: maxKeys,
		now:     now,
		windows: make(map[string]*fixedWindow),
	}
}

// Allow records a call from source. When the quota is spent it returns
// false and the time left until the window resets.
func (l *Limiter) Allow(source string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[source]
	if !ok || now.Sub(w.start) >= l.window {
		if !ok && len(l.windows) >= l.maxKeys {
			l.evict(now)
		}
		w = &fixedWindow{start: now}
		l.windows[source] = w
	}

	if w.count >= l.quota {
		return false, w.start.Add(l.window).Sub(now)
	}
	w.count++
	return true, 0
}

// evict drops expired windows, or the oldest one if none has expired.
func (l *Limiter) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, k)
			continue
		}
		if oldestKey == "" || w.start.Before(oldest) {
			oldestKey, oldest = k, w.start
		}
	}
	if len(l.windows) >= l.maxKeys && oldestKey != "" {
		delete(l.windows, oldestKey)
	}
}

// Sources returns the number of tracked sources.
func (l *Limiter) Sources() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
