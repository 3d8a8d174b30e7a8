package graphql

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces requests to the same endpoint and holds endpoints in cooldown
// after they rate limit us. Safe for concurrent use.
type Pacer struct {
	spacing time.Duration
	now     func() time.Time

	mu       sync.Mutex
	next     map[string]time.Time
	cooldown map[string]time.Time
}

// NewPacer builds a Pacer enforcing spacing between request starts per endpoint.
func NewPacer(spacing time.Duration) *Pacer {
	return &Pacer{
		spacing:  spacing,
		now:      time.Now,
		next:     make(map[string]time.Time),
		cooldown: make(map[string]time.Time),
	}
}

// Reserve claims the next start slot for endpoint and returns how long the
// caller must wait before using it.
func (p *Pacer) Reserve(endpoint string) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	start := now
	if next, ok := p.next[endpoint]; ok && next.After(start) {
		start = next
	}
	if until, ok := p.cooldown[endpoint]; ok {
		if until.After(start) {
			start = until
		} else if !until.After(now) {
			delete(p.cooldown, endpoint)
		}
	}
	p.next[endpoint] = start.Add(p.spacing)
	return start.Sub(now)
}

// Wait blocks until the endpoint's next slot, or until ctx is done.
func (p *Pacer) Wait(ctx context.Context, endpoint string) error {
	return sleep(ctx, p.Reserve(endpoint))
}

// Cooldown keeps every request to endpoint from starting before until.
func (p *Pacer) Cooldown(endpoint string, until time.Time) {
	p.mu.Lock()
	if current, ok := p.cooldown[endpoint]; !ok || until.After(current) {
		p.cooldown[endpoint] = until
	}
	p.mu.Unlock()
}

// CooldownUntil returns the active cooldown deadline for endpoint, if any.
func (p *Pacer) CooldownUntil(endpoint string) (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	until, ok := p.cooldown[endpoint]
	if !ok || !until.After(p.now()) {
		return time.Time{}, false
	}
	return until, true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
