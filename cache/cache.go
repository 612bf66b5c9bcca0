// Package cache keeps results of deterministic models so repeated
// calculations over the same inputs are free. It's mostly useful for the
// exact model, whose cost grows exponentially with the field size.
package cache

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/icm/tourney"
)

// DefaultMaxEntries bounds the global cache.
const DefaultMaxEntries = 4096

// Key identifies one model call.
type Key uint64

// KeyFor hashes the model name and inputs. Payouts should already be
// normalized to the player count so that equivalent schedules share a key.
func KeyFor(model string, stacks tourney.Stacks, payouts tourney.Payouts) Key {
	buf := make([]byte, 0, len(model)+8*(len(stacks)+len(payouts)+2))
	buf = append(buf, model...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(stacks)))
	for _, s := range stacks {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s))
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(payouts)))
	for _, p := range payouts {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p))
	}
	return Key(xxhash.Sum64(buf))
}

type loadFunc func() (*tourney.Result, error)

// Cache maps keys to results. When full, it is emptied rather than
// evicting entry by entry.
type Cache struct {
	sync.Mutex
	objects    map[Key]*tourney.Result
	maxEntries int
	hits       int
	misses     int
}

func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{objects: make(map[Key]*tourney.Result), maxEntries: maxEntries}
}

// GlobalResultCache is shared by cached calculators that aren't given
// their own cache.
var GlobalResultCache *Cache

var createOnce sync.Once

func Global() *Cache {
	createOnce.Do(func() {
		GlobalResultCache = New(DefaultMaxEntries)
	})
	return GlobalResultCache
}

// Load returns the result stored under key, calling loadFunc to compute
// it on a miss. Callers get their own copy.
func (c *Cache) Load(key Key, loadFunc loadFunc) (*tourney.Result, error) {
	c.Lock()
	if obj, ok := c.objects[key]; ok {
		c.hits++
		c.Unlock()
		log.Debug().Uint64("key", uint64(key)).Msg("getting result from cache")
		return obj.Copy(), nil
	}
	c.misses++
	c.Unlock()

	// Computed outside the lock; two concurrent misses on one key both
	// compute and the later store wins.
	log.Debug().Uint64("key", uint64(key)).Msg("loading into cache")
	obj, err := loadFunc()
	if err != nil {
		return nil, err
	}

	c.Lock()
	defer c.Unlock()
	if len(c.objects) >= c.maxEntries {
		log.Debug().Int("entries", len(c.objects)).Msg("result-cache-full-clearing")
		clear(c.objects)
	}
	c.objects[key] = obj.Copy()
	return obj, nil
}

func (c *Cache) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.Lock()
	defer c.Unlock()
	return c.hits, c.misses
}

func (c *Cache) Clear() {
	c.Lock()
	defer c.Unlock()
	clear(c.objects)
	c.hits, c.misses = 0, 0
}
