package graphql

import (
	"context"
	"sync"
	"time"
)

// RequestCache shares one in-flight or recently finished request among every
// caller using the same key inside a fixed window. Entries are evicted when the
// window elapses, whatever the request outcome.
type RequestCache struct {
	window time.Duration

	mu      sync.Mutex
	entries map[string]*call
}

type call struct {
	done chan struct{}
	resp *Response
	err  error
}

func NewRequestCache(window time.Duration) *RequestCache {
	return &RequestCache{
		window:  window,
		entries: make(map[string]*call),
	}
}

// Do runs fn for key unless an entry for key already exists, in which case it
// waits for that entry's result. shared reports whether the result came from
// another caller. fn runs detached from the cancellation of ctx, so every caller,
// including the first, stops waiting only when its own ctx ends while the shared
// request keeps running for the others.
func (c *RequestCache) Do(ctx context.Context, key string, fn func(context.Context) (*Response, error)) (resp *Response, err error, shared bool) {
	c.mu.Lock()
	if existing, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return wait(ctx, existing, true)
	}

	entry := &call{done: make(chan struct{})}
	if c.window > 0 {
		c.entries[key] = entry
		time.AfterFunc(c.window, func() { c.evict(key, entry) })
	}
	c.mu.Unlock()

	go func() {
		entry.resp, entry.err = fn(context.WithoutCancel(ctx))
		close(entry.done)
	}()
	return wait(ctx, entry, false)
}

func wait(ctx context.Context, entry *call, shared bool) (*Response, error, bool) {
	select {
	case <-entry.done:
		return entry.resp, entry.err, shared
	case <-ctx.Done():
		return nil, ctx.Err(), shared
	}
}

// Len returns the number of live entries.
func (c *RequestCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *RequestCache) evict(key string, entry *call) {
	c.mu.Lock()
	if c.entries[key] == entry {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}
