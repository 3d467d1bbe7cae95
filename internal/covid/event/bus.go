package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/gocovid/internal/covid/entity"
)

var (
	ErrBusClosed = errors.New("event bus is closed")
	ErrBusFull   = errors.New("event bus is full")
)

// Bus queues refresh events for the consumer. A key that is already queued or
// being refreshed is coalesced into the pending event.
type Bus struct {
	mu      sync.RWMutex
	closed  bool
	ch      chan entity.RefreshEvent
	pending sync.Map
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.RefreshEvent, buffer),
	}
}

// Publish enqueues event without waiting for buffer space.
func (b *Bus) Publish(ctx context.Context, event entity.RefreshEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, loaded := b.pending.LoadOrStore(event.Key, struct{}{}); loaded {
		return nil
	}

	select {
	case b.ch <- event:
		return nil
	default:
		b.pending.Delete(event.Key)
		return ErrBusFull
	}
}

func (b *Bus) Subscribe() <-chan entity.RefreshEvent {
	return b.ch
}

// Done releases key so that it can be published again.
func (b *Bus) Done(key string) {
	b.pending.Delete(key)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
