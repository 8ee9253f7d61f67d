// Package debounce coalesces bursts of search requests. Each search box has
// one pending timer; every new request for the box restarts it and
// supersedes the request that was waiting, so only the last request of a
// burst goes on to query the parts API.
package debounce

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the quiet period a burst must observe before it settles.
const DefaultDelay = 400 * time.Millisecond

// slot is one waiting request. A request still owns its key while the map
// holds its slot pointer.
type slot struct {
	value string
	// superseded is closed when a newer request takes the slot.
	superseded chan struct{}
}

// Coalescer tracks one slot per key.
type Coalescer struct {
	delay time.Duration

	mu    sync.Mutex
	slots map[string]*slot
}

// New returns a Coalescer with the given quiet period; delay <= 0 uses DefaultDelay.
func New(delay time.Duration) *Coalescer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Coalescer{delay: delay, slots: make(map[string]*slot)}
}

// Delay returns the quiet period.
func (c *Coalescer) Delay() time.Duration { return c.delay }

// Wait registers value as the newest request for key and blocks until either
// the quiet period elapses (fire is true and the caller should perform the
// search) or a newer request for the same key arrives (fire is false). A
// canceled ctx returns its error and releases the slot if it still owns it.
func (c *Coalescer) Wait(ctx context.Context, key, value string) (bool, error) {
	s := c.claim(key, value)

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return c.settle(key, s), nil
	case <-s.superseded:
		return false, nil
	case <-ctx.Done():
		c.release(key, s)
		return false, ctx.Err()
	}
}

func (c *Coalescer) claim(key, value string) *slot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.slots[key]; ok {
		close(prev.superseded)
	}
	s := &slot{value: value, superseded: make(chan struct{})}
	c.slots[key] = s
	return s
}

// settle reports whether s is still the newest request and frees the key.
func (c *Coalescer) settle(key string, s *slot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.slots[key]
	if !ok || cur != s {
		return false
	}
	delete(c.slots, key)
	return true
}

func (c *Coalescer) release(key string, s *slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.slots[key]; ok && cur == s {
		delete(c.slots, key)
	}
}

// Latest returns the value of the request currently waiting on key.
func (c *Coalescer) Latest(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[key]
	if !ok {
		return "", false
	}
	return s.value, true
}

// Pending returns the number of keys with a waiting request.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}
