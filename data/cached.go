package data

import (
	"sync"
	"time"

	"github.com/quantfold/ctabacktester/common/cache"
)

// DefaultCacheCapacity bounds the number of memoised load results
const DefaultCacheCapacity = 1000

type loadKey struct {
	symbol   string
	venue    string
	interval Interval
	start    int64
	end      int64
	ticks    bool
}

// CachedProvider memoises another provider keyed by the full request so
// optimisation workers replaying identical ranges hit memory instead of the
// underlying store. Safe for concurrent use; callers must treat returned
// slices as read only
type CachedProvider struct {
	mtx      sync.Mutex
	provider Provider
	lru      *cache.LRU
}

// NewCachedProvider wraps a provider with an LRU memo of the given capacity.
// A zero capacity selects DefaultCacheCapacity
func NewCachedProvider(p Provider, capacity uint64) *CachedProvider {
	if capacity == 0 {
		capacity = DefaultCacheCapacity
	}
	return &CachedProvider{
		provider: p,
		lru:      cache.NewLRU(capacity),
	}
}

// LoadBars implements Provider
func (c *CachedProvider) LoadBars(symbol, venue string, interval Interval, start, end time.Time) ([]Bar, error) {
	key := loadKey{
		symbol:   symbol,
		venue:    venue,
		interval: interval,
		start:    start.UnixNano(),
		end:      end.UnixNano(),
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if hit := c.lru.Get(key); hit != nil {
		return hit.([]Bar), nil
	}
	bars, err := c.provider.LoadBars(symbol, venue, interval, start, end)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, bars)
	return bars, nil
}

// LoadTicks implements Provider
func (c *CachedProvider) LoadTicks(symbol, venue string, start, end time.Time) ([]Tick, error) {
	key := loadKey{
		symbol: symbol,
		venue:  venue,
		start:  start.UnixNano(),
		end:    end.UnixNano(),
		ticks:  true,
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if hit := c.lru.Get(key); hit != nil {
		return hit.([]Tick), nil
	}
	ticks, err := c.provider.LoadTicks(symbol, venue, start, end)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, ticks)
	return ticks, nil
}
