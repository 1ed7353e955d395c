package testutil

import "sync"

// TraceClock numbers trace keys in order of first appearance. Stamping a key
// again returns the number it was first given, so a trace built from the same
// input always carries the same seq values.
//
// Thread-safety: TraceClock is safe for concurrent use.
type TraceClock struct {
	mu   sync.Mutex
	seq  int64
	keys map[string]int64
}

// NewTraceClock creates an empty clock. The first key stamped gets 1.
func NewTraceClock() *TraceClock {
	return &TraceClock{keys: make(map[string]int64)}
}

// Stamp returns the sequence number of key and reports whether this call
// assigned it. The empty string is a key like any other.
func (c *TraceClock) Stamp(key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq, ok := c.keys[key]; ok {
		return seq, false
	}
	c.seq++
	c.keys[key] = c.seq
	return c.seq, true
}

// Len returns the number of distinct keys stamped so far.
func (c *TraceClock) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}
