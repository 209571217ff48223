// Package cache implements a bounded least-recently-used cache. It backs the
// historical data provider memoisation so repeated optimisation runs do not
// refetch identical ranges while memory stays capped
package cache

import "container/list"

// LRU is a non-concurrent-safe least-recently-used cache
type LRU struct {
	capacity uint64
	l        *list.List
	items    map[any]*list.Element
}

type item struct {
	key   any
	value any
}

// NewLRU returns a new LRU cache with the input capacity
func NewLRU(capacity uint64) *LRU {
	return &LRU{
		capacity: capacity,
		l:        list.New(),
		items:    make(map[any]*list.Element),
	}
}

// Add stores a value, evicting the oldest entry when over capacity
func (c *LRU) Add(key, value any) {
	if el, ok := c.items[key]; ok {
		c.l.MoveToFront(el)
		el.Value.(*item).value = value
		return
	}
	c.items[key] = c.l.PushFront(&item{key: key, value: value})
	if c.Len() > c.capacity {
		c.removeOldest()
	}
}

// Get returns the value stored against key, or nil when absent, refreshing
// its recency
func (c *LRU) Get(key any) any {
	el, ok := c.items[key]
	if !ok {
		return nil
	}
	c.l.MoveToFront(el)
	return el.Value.(*item).value
}

// Contains reports whether key is cached without refreshing its recency
func (c *LRU) Contains(key any) bool {
	_, ok := c.items[key]
	return ok
}

// Remove drops key from the cache, reporting whether it was present
func (c *LRU) Remove(key any) bool {
	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.remove(el)
	return true
}

// Len returns the current number of cached entries
func (c *LRU) Len() uint64 {
	return uint64(c.l.Len())
}

// Clear empties the cache
func (c *LRU) Clear() {
	c.l.Init()
	c.items = make(map[any]*list.Element)
}

func (c *LRU) removeOldest() {
	if el := c.l.Back(); el != nil {
		c.remove(el)
	}
}

func (c *LRU) remove(el *list.Element) {
	c.l.Remove(el)
	delete(c.items, el.Value.(*item).key)
}
