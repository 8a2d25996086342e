package hub

import (
	"context"
	"testing"
	"time"

	"github.com/atikulmunna/agentlog/internal/model"
)

func TestHubBroadcast(t *testing.T) {
	h := New()

	sub1 := h.Subscribe()
	sub2 := h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Start(ctx)

	h.Publish(model.Event{Name: model.EventLogUpdated, Data: "x"})

	// Both subscribers should receive it.
	for i, sub := range []<-chan model.Event{sub1, sub2} {
		select {
		case e := <-sub:
			if e.Name != model.EventLogUpdated {
				t.Errorf("sub%d: expected logUpdated, got %s", i+1, e.Name)
			}
			if e.At.IsZero() {
				t.Errorf("sub%d: expected publish time to be set", i+1)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("sub%d: timed out", i+1)
		}
	}
}

func TestHubSlowConsumer(t *testing.T) {
	h := New()

	// Subscribe but never read, like a stalled dashboard.
	_ = h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Start(ctx)

	// Fill beyond the subscriber buffer.
	for i := 0; i < subscriberBuffer+100; i++ {
		h.Publish(model.Event{Name: model.EventFileUpdate})
	}

	// Give hub time to process.
	time.Sleep(500 * time.Millisecond)

	if h.Dropped() == 0 {
		t.Error("expected dropped events for slow consumer, got 0")
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	h := New() // not started: nothing drains the input queue

	done := make(chan struct{})
	go func() {
		for i := 0; i < inputBuffer+10; i++ {
			h.Publish(model.Event{Name: model.EventLogUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	if h.Dropped() != 10 {
		t.Errorf("expected 10 dropped, got %d", h.Dropped())
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := New()
	sub := h.Subscribe()

	h.Unsubscribe(sub)

	if h.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers, got %d", h.Subscribers())
	}
	if _, ok := <-sub; ok {
		t.Error("expected channel to be closed")
	}

	// Unsubscribing twice is harmless.
	h.Unsubscribe(sub)
}

func TestHubStopClosesSubscribers(t *testing.T) {
	h := New()
	sub := h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Start(ctx)
		close(done)
	}()
	cancel()
	<-done

	if _, ok := <-sub; ok {
		t.Error("expected subscriber channel closed after stop")
	}
	if _, ok := <-h.Subscribe(); ok {
		t.Error("expected late subscription to be closed immediately")
	}
}
