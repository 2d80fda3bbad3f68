package events

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	first, cancelFirst := b.Subscribe(1)
	defer cancelFirst()
	second, cancelSecond := b.Subscribe(1)
	defer cancelSecond()

	b.Publish(ShortcutEvent, ToggleTimerPayload)

	for i, ch := range []<-chan Event{first, second} {
		select {
		case evt := <-ch:
			if evt.Name != ShortcutEvent || evt.Payload != ToggleTimerPayload {
				t.Fatalf("subscriber %d got %+v", i, evt)
			}
		default:
			t.Fatalf("subscriber %d received nothing", i)
		}
	}
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	b := NewBroadcaster()
	_, cancel := b.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for range 10 {
			b.Publish("tick", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	if got := b.Dropped(); got != 9 {
		t.Fatalf("Dropped() = %d, want 9", got)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := NewBroadcaster()
	b.Publish("nobody-listens", 1)
	if b.Dropped() != 0 {
		t.Fatalf("Dropped() = %d, want 0", b.Dropped())
	}
}

func TestCancelClosesChannelAndIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(0)
	if cap(ch) != DefaultBuffer {
		t.Fatalf("cap = %d, want %d", cap(ch), DefaultBuffer)
	}
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after cancel")
	}
	b.Publish("after-cancel", nil)
}

func TestCloseEndsSubscriptions(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(1)
	b.Close()
	b.Close()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after Close")
	}

	late, _ := b.Subscribe(1)
	if _, ok := <-late; ok {
		t.Fatal("Subscribe after Close should return a closed channel")
	}
	b.Publish("after-close", nil)
}

func TestForwardDrainsIntoSink(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(4)

	var mu sync.Mutex
	var got []Event
	sink := EmitterFunc(func(name string, payload any) {
		mu.Lock()
		got = append(got, Event{Name: name, Payload: payload})
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		Forward(context.Background(), ch, sink)
		close(done)
	}()

	b.Publish(ShortcutEvent, ToggleTimerPayload)
	b.Publish(ConfigUpdated, map[string]any{"tray_icon": "color"})
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0].Name != ShortcutEvent || got[1].Name != ConfigUpdated {
		t.Fatalf("forwarded = %+v", got)
	}
}

func TestForwardStopsOnContextCancel(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Forward(ctx, ch, EmitterFunc(func(string, any) {}))
		close(done)
	}()
	stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Forward did not stop after context cancel")
	}
}
