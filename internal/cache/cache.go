// Package cache provides an explicit, caller-owned memoization store
// for analysis results, keyed by series identity and configuration.
// There is deliberately no package-level instance: each owner creates
// and invalidates its own cache.
package cache

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"

	"VolumeScope/internal/model"
)

// Key identifies one analysis result: the series fingerprint plus a
// configuration fingerprint chosen by the caller.
type Key struct {
	SeriesHash uint64
	Config     string
}

// AnalysisCache memoizes computed results. Safe for concurrent use.
type AnalysisCache struct {
	mu      sync.RWMutex
	entries map[Key]interface{}
}

// New creates an empty cache.
func New() *AnalysisCache {
	return &AnalysisCache{entries: make(map[Key]interface{})}
}

// Get returns the cached value for the key, if present.
func (c *AnalysisCache) Get(key Key) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a value for the key, replacing any previous entry.
func (c *AnalysisCache) Put(key Key, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// Invalidate drops every entry computed from the given series.
func (c *AnalysisCache) Invalidate(seriesHash uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.SeriesHash == seriesHash {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of cached entries.
func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// HashSeries fingerprints a price series by date, close, and volume.
// Two series with the same fingerprint are treated as identical input.
func HashSeries(points []model.PricePoint) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, p := range points {
		h.Write([]byte(p.Date))
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.Close))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.Volume))
		h.Write(buf[:])
	}
	return h.Sum64()
}
