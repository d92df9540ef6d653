package main

import (
	"container/list"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"
)

// ── Memo keys ───────────────────────────────────────────────────────

// stateKey is the memoization key: everything about a State that changes
// which children are admissible. Elapsed is implied by remaining, and the
// history fields reduce to the set of recipes the deferred-opportunity rule
// blocks.
type stateKey struct {
	robots    Materials[int]
	materials Materials[int]
	remaining int
	deferred  uint8 // bit m set = building Material(m) is blocked
}

// pack encodes k as a compact string. Uvarints are self-delimiting, so
// distinct keys never share an encoding.
func (k stateKey) pack() string {
	buf := make([]byte, 0, 32)
	for _, v := range [...]int{
		k.robots.Ore, k.robots.Clay, k.robots.Obsidian, k.robots.Geode,
		k.materials.Ore, k.materials.Clay, k.materials.Obsidian, k.materials.Geode,
		k.remaining,
	} {
		buf = binary.AppendUvarint(buf, uint64(v))
	}
	buf = append(buf, k.deferred)
	return string(buf)
}

// ── Memo backends ───────────────────────────────────────────────────

// memo is the bounded cache behind the search. Implementations are safe for
// concurrent use. A miss is always allowed: the cache approximates a memo
// table, it never decides the answer.
type memo interface {
	Get(k stateKey) (int, bool)
	Set(k stateKey, geodes int)
	Evictions() int64
	Close()
}

const (
	BackendLRU       = "lru"
	BackendRistretto = "ristretto"
)

func newMemo(cfg CacheConfig) (memo, error) {
	switch cfg.Backend {
	case BackendLRU, "":
		return lruMemo{NewLRUCache[stateKey, int](cfg.Capacity)}, nil
	case BackendRistretto:
		return newRistrettoMemo(cfg.Capacity)
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

type lruMemo struct {
	c *LRUCache[stateKey, int]
}

func (m lruMemo) Get(k stateKey) (int, bool) { return m.c.Get(k) }
func (m lruMemo) Set(k stateKey, v int)      { m.c.Set(k, v) }
func (m lruMemo) Evictions() int64           { return m.c.Evictions() }
func (m lruMemo) Close()                     { m.c.Purge() }

type ristrettoMemo struct {
	c *ristretto.Cache[string, int]
}

func newRistrettoMemo(capacity int) (*ristrettoMemo, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, int]{
		NumCounters:        int64(capacity) * 10,
		MaxCost:            int64(capacity),
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("ristretto cache: %w", err)
	}
	return &ristrettoMemo{c: c}, nil
}

func (m *ristrettoMemo) Get(k stateKey) (int, bool) { return m.c.Get(k.pack()) }
func (m *ristrettoMemo) Set(k stateKey, v int)      { m.c.Set(k.pack(), v, 1) }
func (m *ristrettoMemo) Close()                     { m.c.Close() }

func (m *ristrettoMemo) Evictions() int64 {
	if m.c.Metrics == nil {
		return 0
	}
	return int64(m.c.Metrics.KeysEvicted())
}

// ── LRU ─────────────────────────────────────────────────────────────

// LRUCache is a fixed-size, mutex-guarded cache that evicts the least
// recently used entry when full. Get and Set are O(1).
type LRUCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List // front = most recent

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRUCache creates a cache holding at most capacity entries. A
// non-positive capacity falls back to 1024.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	if capacity <= 0 {
		capacity = 1024
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, min(capacity, 1<<16)),
		order:    list.New(),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		c.hits.Add(1)
		return elem.Value.(*lruEntry[K, V]).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set stores value under key, evicting the least recently used entry if the
// cache is full.
func (c *LRUCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*lruEntry[K, V]).value = value
		return
	}
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry[K, V]).key)
			c.evictions.Add(1)
		}
	}
	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
}

// Len returns the number of entries.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge drops every entry and resets the counters.
func (c *LRUCache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Stats returns hit and miss counts since creation or the last Purge.
func (c *LRUCache[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Evictions returns how many entries were dropped for capacity.
func (c *LRUCache[K, V]) Evictions() int64 {
	return c.evictions.Load()
}
