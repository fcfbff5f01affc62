package layout

import "github.com/gekko3d/hexfield/hexrt/rt/hex"

// DefaultCacheSize bounds the cache during continuous window resizes.
const DefaultCacheSize = 32

type cacheKey struct {
	width, height float64
	desired       int
	orientation   hex.Orientation
}

// Cache memoizes Compute by (width, height, desiredCount, orientation).
// Padding is fixed per cache. Once MaxEntries keys are held the oldest one
// is evicted.
type Cache struct {
	Padding    float64
	MaxEntries int

	entries map[cacheKey]Layout
	order   []cacheKey
	Hits    int
	Misses  int
}

func NewCache(padding float64) *Cache {
	return &Cache{
		Padding:    padding,
		MaxEntries: DefaultCacheSize,
		entries:    make(map[cacheKey]Layout),
	}
}

func (c *Cache) Get(width, height float64, desiredCount int, orientation hex.Orientation) Layout {
	key := cacheKey{width: width, height: height, desired: desiredCount, orientation: orientation}
	if l, ok := c.entries[key]; ok {
		c.Hits++
		return l
	}
	c.Misses++
	l := Compute(width, height, desiredCount, c.Padding, orientation)
	limit := max(c.MaxEntries, 1)
	for len(c.order) >= limit {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[key] = l
	c.order = append(c.order, key)
	return l
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) Clear() {
	clear(c.entries)
	c.order = c.order[:0]
}
