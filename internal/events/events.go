// Package events fans shell events out to the UI layer and other listeners.
package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Event names and payloads understood by the UI layer.
const (
	ShortcutEvent      = "shortcut-event"
	ToggleTimerPayload = "toggle-timer"
	ConfigUpdated      = "config:updated"
)

// DefaultBuffer is the subscriber channel capacity used when Subscribe is
// given a non-positive size.
const DefaultBuffer = 16

// Event is one broadcast message.
type Event struct {
	Name    string
	Payload any
}

// Emitter emits events to any host (Wails runtime, logger, tests).
type Emitter interface {
	Emit(name string, payload any)
}

// EmitterFunc adapts a function into Emitter.
type EmitterFunc func(name string, payload any)

func (f EmitterFunc) Emit(name string, payload any) {
	f(name, payload)
}

// Broadcaster delivers every published event to all current subscribers.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Event
	nextID  uint64
	closed  bool
	dropped atomic.Uint64
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uint64]chan Event)}
}

// Subscribe registers a listener. The returned cancel func removes it and
// closes the channel; calling it more than once is safe.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Broadcaster) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish sends an event to every subscriber without waiting.
func (b *Broadcaster) Publish(name string, payload any) {
	evt := Event{Name: name, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.dropped.Add(1)
			slog.Debug("[EVENT] subscriber buffer full, event dropped", "event", name)
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes all subscriber channels. Later publishes are ignored.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Forward drains ch into sink until ctx is done or ch is closed.
func Forward(ctx context.Context, ch <-chan Event, sink Emitter) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			sink.Emit(evt.Name, evt.Payload)
		}
	}
}
