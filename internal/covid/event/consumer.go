package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/gocovid/internal/covid/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.RefreshEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// RefreshConsumer drains the bus with a fixed pool of workers, retrying a
// failed refresh with exponential backoff.
type RefreshConsumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func NewRefreshConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *RefreshConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 2
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 200 * time.Millisecond
	}

	return &RefreshConsumer{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		stop:        make(chan struct{}),
	}
}

// Start launches the workers. Refreshes run under ctx, so cancelling it
// aborts in-flight provider calls.
func (c *RefreshConsumer) Start(ctx context.Context) {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx)
	}
}

// Stop closes the bus and waits for the workers to drain it. Pending retries
// are abandoned.
func (c *RefreshConsumer) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		close(c.stop)
		if c.bus != nil {
			c.bus.Close()
		}
	})

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *RefreshConsumer) worker(ctx context.Context) {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(ctx, event)
		c.bus.Done(event.Key)
	}
}

func (c *RefreshConsumer) processEvent(ctx context.Context, event entity.RefreshEvent) {
	if c.handler == nil {
		return
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return
		}

		err := c.handler.Handle(ctx, event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to refresh country after retries", "key", event.Key, "country", event.Name, "error", err)
			return
		}

		slog.Warn("refresh attempt failed", "key", event.Key, "attempt", attempt+1, "error", err)
		if !c.sleepBackoff(backoff) {
			return
		}
		backoff *= 2
	}
}

func (c *RefreshConsumer) sleepBackoff(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.stop:
		return false
	}
}
