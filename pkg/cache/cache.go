// Package cache provides a thread-safe LRU cache for compiled gocalc expressions.
//
// The evaluator uses it in EvalString when caching is enabled, so a formula
// that is evaluated over and over with different parameters is parsed once.
//
// # Example
//
//	c := cache.New(1024)
//	expr, hit, err := c.GetOrCompile("[price] * (1 + [vat])", compile)
package cache

import (
	"container/list"
	"sync"

	"github.com/sandrolain/gocalc/pkg/types"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	source string
	expr   *types.Expression
}

// Stats reports cache usage counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a thread-safe LRU (Least Recently Used) cache keyed by formula
// source text. Once the capacity is reached, the least recently accessed
// entry is evicted.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	stats    Stats
}

// New creates a new LRU cache with the given capacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves the compiled expression for source and marks it as most
// recently used.
func (c *Cache) Get(source string) (*types.Expression, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[source]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.ll.MoveToFront(el)
	return el.Value.(*entry).expr, true
}

// Set inserts or replaces an expression.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(source string, expr *types.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[source]; ok {
		el.Value.(*entry).expr = expr
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}
	c.items[source] = c.ll.PushFront(&entry{source: source, expr: expr})
}

// GetOrCompile returns the cached expression for source, or calls compile
// and caches its result. hit reports whether compile was skipped.
// Failed compilations are not cached.
func (c *Cache) GetOrCompile(source string, compile func() (*types.Expression, error)) (expr *types.Expression, hit bool, err error) {
	if expr, ok := c.Get(source); ok {
		return expr, true, nil
	}
	expr, err = compile()
	if err != nil {
		return nil, false, err
	}
	c.Set(source, expr)
	return expr, false, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the usage counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Remove drops the entry for source, if any.
func (c *Cache) Remove(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[source]; ok {
		c.ll.Remove(el)
		delete(c.items, source)
	}
}

// Clear removes all entries. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).source)
	c.stats.Evictions++
}
