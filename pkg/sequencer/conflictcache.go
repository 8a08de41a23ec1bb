package sequencer

import (
	"container/list"
	"sync"
)

// ConflictCache is a bounded, approximate mapping from conflict-key to the
// global position at which a write touching that key was last issued
// (spec §4.3). It is deliberately lossy: the back-pointer map remains the
// ground truth for stream-granularity aborts, and a cache miss must be
// treated as "consistent with snapshot", never as a signal to abort.
//
// Many concurrent lookups are permitted; recordWrite is called only from
// the allocator's critical section, so a single RWMutex is sufficient —
// writers never contend with each other.
type ConflictCache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type conflictEntry struct {
	key string
	pos int64
}

// NewConflictCache creates a conflict cache bounded to capacity entries.
func NewConflictCache(capacity int) *ConflictCache {
	if capacity <= 0 {
		capacity = 10_000
	}
	return &ConflictCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// RecordWrite inserts or raises the recorded position for key (spec §4.3:
// "raising the value if the new pos is greater"). Evicts the
// least-recently-written entry (Lookup does not refresh recency) if the
// cache would exceed capacity, and
// reports whether an eviction actually happened.
func (c *ConflictCache) RecordWrite(key []byte, pos int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := string(key)

	if elem, ok := c.entries[k]; ok {
		entry := elem.Value.(*conflictEntry)
		if pos > entry.pos {
			entry.pos = pos
		}
		c.order.MoveToFront(elem)
		return false
	}

	entry := &conflictEntry{key: k, pos: pos}
	elem := c.order.PushFront(entry)
	c.entries[k] = elem

	if len(c.entries) > c.capacity {
		return c.evictOldest()
	}
	return false
}

// evictOldest removes the least-recently-used entry, reporting whether one
// was removed. Caller must hold mu.
func (c *ConflictCache) evictOldest() bool {
	oldest := c.order.Back()
	if oldest == nil {
		return false
	}
	c.order.Remove(oldest)
	delete(c.entries, oldest.Value.(*conflictEntry).key)
	return true
}

// Lookup returns the last recorded position for key, and false if the key
// was never written or has since been evicted — the two cases are
// indistinguishable by design (spec §4.3).
func (c *ConflictCache) Lookup(key []byte) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	elem, ok := c.entries[string(key)]
	if !ok {
		return 0, false
	}
	return elem.Value.(*conflictEntry).pos, true
}

// Len returns the current number of cached keys.
func (c *ConflictCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries the cache will hold.
func (c *ConflictCache) Capacity() int {
	return c.capacity
}
