package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/atikulmunna/agentlog/internal/model"
)

const epsWindow = 5 * time.Second

// Stats holds a point-in-time snapshot of push-channel activity.
type Stats struct {
	Uptime        string           `json:"uptime"`
	TotalEvents   int64            `json:"total_events"`
	EPS           float64          `json:"eps"`
	EventCounts   map[string]int64 `json:"event_counts"`
	TypeCounts    map[string]int64 `json:"type_counts"`
	AgentCounts   map[string]int64 `json:"agent_counts"`
	FileCounts    map[string]int64 `json:"file_counts"`
	DroppedEvents int64            `json:"dropped_events"`
	FilesWatched  int              `json:"files_watched"`
}

// Aggregator consumes a hub subscription and keeps counters for /api/stats:
// accepted entries by type and agent, relayed files, and events per second.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	totalEvents int64
	eventCounts map[string]int64
	typeCounts  map[string]int64
	agentCounts map[string]int64
	fileCounts  map[string]int64
	window      []time.Time // event times for EPS calculation (last 5 seconds)
	dropped     func() int64
	fileCount   func() int
	events      <-chan model.Event
}

// New creates an Aggregator that reads from the given Hub subscriber channel.
// droppedFn and fileCountFn provide live values from Hub and Watcher respectively.
func New(events <-chan model.Event, droppedFn func() int64, fileCountFn func() int) *Aggregator {
	return &Aggregator{
		startTime:   time.Now(),
		eventCounts: make(map[string]int64),
		typeCounts:  make(map[string]int64),
		agentCounts: make(map[string]int64),
		fileCounts:  make(map[string]int64),
		dropped:     droppedFn,
		fileCount:   fileCountFn,
		events:      events,
	}
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	cutoff := time.Now().Add(-epsWindow)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	return Stats{
		Uptime:        time.Since(a.startTime).Truncate(time.Second).String(),
		TotalEvents:   a.totalEvents,
		EPS:           float64(recent) / epsWindow.Seconds(),
		EventCounts:   copyCounts(a.eventCounts),
		TypeCounts:    copyCounts(a.typeCounts),
		AgentCounts:   copyCounts(a.agentCounts),
		FileCounts:    copyCounts(a.fileCounts),
		DroppedEvents: a.dropped(),
		FilesWatched:  a.fileCount(),
	}
}

// Start begins consuming events and updating metrics. Blocks until context is cancelled.
func (a *Aggregator) Start(ctx context.Context) {
	// Periodically prune the sliding window.
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-a.events:
			if !ok {
				return
			}
			a.record(ev)
		case <-ticker.C:
			a.prune()
		}
	}
}

// record adds an event to the metrics.
func (a *Aggregator) record(ev model.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalEvents++
	a.eventCounts[ev.Name]++
	switch d := ev.Data.(type) {
	case model.LogUpdated:
		a.typeCounts[d.NewEntry.Type]++
		a.agentCounts[d.NewEntry.Agent]++
	case model.FileUpdate:
		a.fileCounts[d.File]++
	}
	a.window = append(a.window, time.Now())
}

// prune removes timestamps older than the EPS window.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-epsWindow)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
