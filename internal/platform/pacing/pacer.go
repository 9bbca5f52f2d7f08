package pacing

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces calls to an upstream at a fixed minimum interval. It is a
// single-slot leaky bucket: the first Wait returns immediately, each later
// Wait blocks until one interval has elapsed since the previously granted
// slot. Safe for concurrent use.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewPacer builds a pacer. A non-positive interval disables pacing so every
// Wait returns immediately.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func (p *Pacer) Interval() time.Duration {
	if p == nil {
		return 0
	}
	return p.interval
}

// Wait blocks until the caller may issue the next upstream call. It returns
// early with the context error when ctx is cancelled; the reserved slot is
// still consumed in that case.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := p.now()
	var delay time.Duration
	if p.next.After(now) {
		delay = p.next.Sub(now)
		p.next = p.next.Add(p.interval)
	} else {
		p.next = now.Add(p.interval)
	}
	p.mu.Unlock()

	if delay <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
