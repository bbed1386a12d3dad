package progress

import (
	"context"
	"sync"
	"time"
)

// TickScheduler runs tick every period until the returned cancel is called.
type TickScheduler interface {
	Schedule(period time.Duration, tick func()) (cancel func())
}

// ChannelScheduler delivers ticks on a channel instead of calling them, so
// the consumer can run them on its own goroutine.
type ChannelScheduler struct {
	ctx   context.Context
	ticks chan func()
}

// NewChannelScheduler returns a scheduler whose timers stop when ctx ends.
func NewChannelScheduler(ctx context.Context) *ChannelScheduler {
	return &ChannelScheduler{ctx: ctx, ticks: make(chan func(), 1)}
}

// Ticks returns the channel of pending ticks.
func (s *ChannelScheduler) Ticks() <-chan func() {
	return s.ticks
}

// Schedule implements TickScheduler.
func (s *ChannelScheduler) Schedule(period time.Duration, tick func()) func() {
	ctx, cancel := context.WithCancel(s.ctx)
	ticker := time.NewTicker(period)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case s.ticks <- tick:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}
