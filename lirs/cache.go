package lirs

import "github.com/arda-db/dbcache/internal/cerr"

// SegmentedCache is a concurrent, scan-resistant cache mapping a 64-bit
// key to a value of type *E, approximating LIRS (spec §4.3). It shards
// across a fixed, power-of-two number of independently locked segments;
// there is no global lock and therefore no cross-segment ordering
// guarantee on aggregate views.
type SegmentedCache[E any] struct {
	segments     []*segment[E]
	segmentShift uint32
	segmentMask  int32
	cfg          Config
}

// New builds a SegmentedCache from cfg, filling in defaults for any
// zero-valued field except MaxMemory.
func New[E any](cfg Config) (*SegmentedCache[E], error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	perSegment := cfg.MaxMemory / int64(cfg.SegmentCount)
	if perSegment < 1 {
		perSegment = 1
	}

	segments := make([]*segment[E], cfg.SegmentCount)
	for i := range segments {
		segments[i] = newSegment[E](perSegment, cfg)
	}

	return &SegmentedCache[E]{
		segments:     segments,
		segmentShift: 32 - uint32(log2(cfg.SegmentCount)),
		segmentMask:  int32(cfg.SegmentCount - 1),
		cfg:          cfg,
	}, nil
}

func (c *SegmentedCache[E]) locate(key int64) (*segment[E], int32) {
	h := mixHash(key)
	idx := (int32(uint32(h)>>c.segmentShift)) & c.segmentMask
	return c.segments[idx], h
}

// Get returns the value for key, adjusting its recency classification.
func (c *SegmentedCache[E]) Get(key int64) (*E, bool) {
	s, h := c.locate(key)
	return s.get(key, h)
}

// Peek returns the value for key without any recency side effects.
func (c *SegmentedCache[E]) Peek(key int64) (*E, bool) {
	s, h := c.locate(key)
	return s.peek(key, h)
}

// Put inserts key/value with a default memory cost of 1 and returns the
// prior value, if any.
func (c *SegmentedCache[E]) Put(key int64, value *E) *E {
	return c.PutWithMemory(key, value, 1)
}

// PutWithMemory inserts key/value with an explicit memory cost and
// returns the prior value, if any. A value whose cost exceeds the
// segment's max memory is not inserted.
func (c *SegmentedCache[E]) PutWithMemory(key int64, value *E, memory int) *E {
	s, h := c.locate(key)
	return s.put(key, h, value, memory)
}

// Remove deletes key and returns its last live value, if any.
func (c *SegmentedCache[E]) Remove(key int64) *E {
	s, h := c.locate(key)
	return s.remove(key, h)
}

func (c *SegmentedCache[E]) ContainsKey(key int64) bool {
	s, h := c.locate(key)
	return s.containsKey(key, h)
}

func (c *SegmentedCache[E]) GetMemory(key int64) int {
	s, h := c.locate(key)
	return s.getMemory(key, h)
}

// SetMaxMemory re-splits the budget evenly across segments and evicts
// each segment whose usedMemory now exceeds its new share.
func (c *SegmentedCache[E]) SetMaxMemory(max int64) error {
	if max < 1 {
		return cerr.NewInvalidArgument("maxMemory", max, "must be at least 1")
	}
	c.cfg.MaxMemory = max
	perSegment := max / int64(len(c.segments))
	if perSegment < 1 {
		perSegment = 1
	}
	for _, s := range c.segments {
		s.setMaxMemory(perSegment)
	}
	return nil
}

func (c *SegmentedCache[E]) GetMaxMemory() int64 { return c.cfg.MaxMemory }

func (c *SegmentedCache[E]) GetUsedMemory() int64 {
	var total int64
	for _, s := range c.segments {
		_, _, _, _, used, _, _, _ := s.stats()
		total += used
	}
	return total
}

func (c *SegmentedCache[E]) Clear() {
	for _, s := range c.segments {
		s.clear()
	}
}

func (c *SegmentedCache[E]) Size() int {
	var total int
	for _, s := range c.segments {
		mapSize, _, _, _, _, _, _, _ := s.stats()
		total += mapSize
	}
	return total
}

func (c *SegmentedCache[E]) SizeHot() int {
	var total int
	for _, s := range c.segments {
		_, hot, _, _, _, _, _, _ := s.stats()
		total += hot
	}
	return total
}

func (c *SegmentedCache[E]) SizeNonResident() int {
	var total int
	for _, s := range c.segments {
		_, _, _, q2, _, _, _, _ := s.stats()
		total += q2
	}
	return total
}

func (c *SegmentedCache[E]) SizeMapArray() int {
	var total int
	for _, s := range c.segments {
		s.mu.RLock()
		total += len(s.buckets.slots)
		s.mu.RUnlock()
	}
	return total
}

func (c *SegmentedCache[E]) GetHits() int64 {
	var total int64
	for _, s := range c.segments {
		_, _, _, _, _, _, hits, _ := s.stats()
		total += hits
	}
	return total
}

func (c *SegmentedCache[E]) GetMisses() int64 {
	var total int64
	for _, s := range c.segments {
		_, _, _, _, _, _, _, misses := s.stats()
		total += misses
	}
	return total
}

// Keys reports keys across all segments matching the (cold, nonResident)
// classification filter; omitting both yields hot keys.
func (c *SegmentedCache[E]) Keys(cold, nonResident bool) []int64 {
	var out []int64
	for _, s := range c.segments {
		out = s.keys(out, cold, nonResident)
	}
	return out
}

func (c *SegmentedCache[E]) KeySet() []int64 {
	return int64s(c.Keys(true, true)).union(c.Keys(false, false))
}

// IsEmpty reports whether the cache holds no entries across any segment.
func (c *SegmentedCache[E]) IsEmpty() bool { return c.Size() == 0 }

// Values returns every value Peek can still reach across all segments:
// each resident value (hot or resident-cold), plus the value of any
// non-resident entry whose weak reference has not yet been collected.
func (c *SegmentedCache[E]) Values() []*E {
	var out []*E
	for _, k := range c.KeySet() {
		if v, ok := c.Peek(k); ok {
			out = append(out, v)
		}
	}
	return out
}

// EntrySet returns a snapshot map of every key/value pair Peek can still
// reach across all segments (resident entries, plus non-resident entries
// whose weak reference is still live). Like GetMap, it is a point-in-time copy: there is
// no cross-segment lock held while it is built.
func (c *SegmentedCache[E]) EntrySet() map[int64]*E {
	return c.GetMap()
}

func (c *SegmentedCache[E]) GetMap() map[int64]*E {
	out := make(map[int64]*E)
	for _, k := range c.KeySet() {
		if v, ok := c.Peek(k); ok {
			out[k] = v
		}
	}
	return out
}

// ContainsValue reports whether v is the value Peek returns for some key
// (a resident value, or a non-resident entry's still-live weak value),
// comparing by pointer identity.
func (c *SegmentedCache[E]) ContainsValue(v *E) bool {
	for _, k := range c.KeySet() {
		if found, ok := c.Peek(k); ok && found == v {
			return true
		}
	}
	return false
}

// TrimNonResidentQueue forces the non-resident queue trim on every
// segment, outside of the normal eviction path.
func (c *SegmentedCache[E]) TrimNonResidentQueue() {
	for _, s := range c.segments {
		s.trimNonResidentQueuePublic()
	}
}

// PutAll inserts every entry from m with the default memory cost.
func (c *SegmentedCache[E]) PutAll(m map[int64]*E) {
	for k, v := range m {
		c.Put(k, v)
	}
}

type int64s []int64

func (a int64s) union(b int64s) []int64 {
	seen := make(map[int64]struct{}, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, x := range a {
		if _, ok := seen[x]; !ok {
			seen[x] = struct{}{}
			out = append(out, x)
		}
	}
	for _, x := range b {
		if _, ok := seen[x]; !ok {
			seen[x] = struct{}{}
			out = append(out, x)
		}
	}
	return out
}
