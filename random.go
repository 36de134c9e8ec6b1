package pagecache

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/arda-db/dbcache/internal/evictionid"
)

// CacheRandom evicts an arbitrary resident record rather than tracking
// recency at all. Neither Get nor Update reorders the list.
type CacheRandom struct {
	*baseCache
	rng *rand.Rand
}

func NewRandom(writer CacheWriter, maxMemoryKB int) (*CacheRandom, error) {
	base, err := newBaseCache(writer, maxMemoryKB)
	if err != nil {
		return nil, err
	}
	return &CacheRandom{
		baseCache: base,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (c *CacheRandom) Get(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	return e.rec, true
}

func (c *CacheRandom) Find(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	return e.rec, true
}

func (c *CacheRandom) Put(r Record) error {
	if r == nil || r.Pos() < 0 {
		return invalidArgument("record.pos", r, "position must be non-negative")
	}
	if c.findEntry(r.Pos()) != nil {
		return internalInvariant("put: duplicate position %d", r.Pos())
	}
	c.insertEntry(r)
	return c.maybeEvict()
}

func (c *CacheRandom) Update(pos int32, r Record) (Record, error) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, c.Put(r)
	}
	if e.rec != r {
		return nil, internalInvariant("update: mismatched identity at pos %d", pos)
	}
	return e.rec, nil
}

func (c *CacheRandom) Remove(pos int32) bool {
	return c.removeByPos(pos)
}

func (c *CacheRandom) Clear() { c.clear() }

func (c *CacheRandom) SetMaxMemory(kb int) error {
	if err := c.setMaxMemory(kb); err != nil {
		return err
	}
	return c.maybeEvict()
}

func (c *CacheRandom) GetMaxMemory() int { return c.getMaxMemoryKB() }
func (c *CacheRandom) GetMemory() int    { return c.getMemoryKB() }

func (c *CacheRandom) GetAllChanged() []Record { return c.getAllChanged() }

func (c *CacheRandom) maybeEvict() error {
	if !c.needsEviction() {
		return nil
	}
	return c.evict()
}

// pickCandidate picks index in [0, recordCount) and walks forward from
// the sentinel to find the entry at that position, per spec §4.2's table.
func (c *CacheRandom) pickCandidate() *entry {
	if c.recordCount == 0 {
		return nil
	}
	idx := c.rng.Intn(c.recordCount)
	e := c.list.head()
	for i := 0; i < idx; i++ {
		e = e.next
	}
	return e
}

// evict repeatedly picks a random resident candidate, skipping ones that
// are pinned, already buffered for write-back, or (per the §9 open
// question resolution) repeat picks of an already-buffered entry. A
// bounded number of picks without progress is treated the same as a full
// linear pass for the shared traversal-bound rule.
func (c *CacheRandom) evict() error {
	var (
		dirty       []*entry
		flushedOnce bool
		examined    int
		passes      int
	)

	for !c.evictionDone(len(dirty)) {
		if c.recordCount == 0 {
			break
		}

		if examined >= c.recordCount {
			passes++
			if passes >= 2 {
				c.tracer.Warn("random eviction exhausted two full passes without freeing enough memory",
					zap.String("evictionID", evictionid.New()),
					zap.Int("recordCount", c.recordCount),
					zap.Int64("memory", c.memory),
					zap.Int64("maxMemory", c.maxMemory),
				)
				break
			}
			if !flushedOnce {
				if err := c.writer.FlushLog(); err != nil {
					return err
				}
				flushedOnce = true
			}
			examined = 0
			continue
		}

		cand := c.pickCandidate()
		examined++
		if cand == nil || cand.buffered {
			continue
		}
		if !cand.rec.CanRemove() {
			continue
		}

		if cand.rec.IsChanged() {
			cand.buffered = true
			dirty = append(dirty, cand)
			continue
		}
		c.removeEntry(cand)
	}

	return c.flushDirty(&flushedOnce, dirty)
}
