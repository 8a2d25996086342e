package hub

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/atikulmunna/agentlog/internal/model"
)

const (
	subscriberBuffer = 256
	inputBuffer      = 1024
)

// Hub fans push events out to all subscribers. Publishing never blocks:
// a full input queue or a slow subscriber drops the event for that path.
type Hub struct {
	input       chan model.Event
	mu          sync.RWMutex
	subscribers map[chan model.Event]struct{}
	closed      bool
	dropped     int64
}

// New creates an idle Hub. Call Start to begin broadcasting.
func New() *Hub {
	return &Hub{
		input:       make(chan model.Event, inputBuffer),
		subscribers: make(map[chan model.Event]struct{}),
	}
}

// Publish queues an event for broadcast.
func (h *Hub) Publish(ev model.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case h.input <- ev:
	default:
		h.countDrop()
		log.Printf("hub: input queue full, dropped %s event", ev.Name)
	}
}

// Subscribe returns a buffered channel that receives every event published
// after the call. The channel is closed by Unsubscribe or when Start returns.
func (h *Hub) Subscribe() <-chan model.Event {
	ch := make(chan model.Event, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (h *Hub) Unsubscribe(sub <-chan model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		if ch == sub {
			delete(h.subscribers, ch)
			close(ch)
			return
		}
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped returns the total number of events dropped.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Start broadcasts queued events until the context is cancelled.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.input:
			h.broadcast(ev)
		}
	}
}

// broadcast sends an event to all subscribers.
// If a subscriber's channel is full, the event is dropped for that subscriber.
func (h *Hub) broadcast(ev model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			h.dropped++
			log.Printf("hub: dropped %s event for slow consumer (total dropped: %d)", ev.Name, h.dropped)
		}
	}
}

func (h *Hub) countDrop() {
	h.mu.Lock()
	h.dropped++
	h.mu.Unlock()
}

// closeAll closes all subscriber channels.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = make(map[chan model.Event]struct{})
	h.closed = true
}
