package pagecache

import (
	"go.uber.org/zap"

	"github.com/arda-db/dbcache/internal/evictionid"
)

// CacheClock approximates LRU with a single sweeping hand and a
// second-chance bit (Record.BeenRead) that the owning engine manages
// externally. Neither Get nor Update reorders the list — Clock's notion of
// recency lives entirely in the externally-set BeenRead bit, observed only
// during eviction.
type CacheClock struct {
	*baseCache

	// ptr is the sweeping hand. It persists across eviction passes (spec
	// §4.2 table: "pointer persists across eviction passes"), initialized
	// lazily to the list head on first use.
	ptr *entry
}

func NewClock(writer CacheWriter, maxMemoryKB int) (*CacheClock, error) {
	base, err := newBaseCache(writer, maxMemoryKB)
	if err != nil {
		return nil, err
	}
	return &CacheClock{baseCache: base}, nil
}

func (c *CacheClock) Get(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	return e.rec, true
}

func (c *CacheClock) Find(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	return e.rec, true
}

func (c *CacheClock) Put(r Record) error {
	if r == nil || r.Pos() < 0 {
		return invalidArgument("record.pos", r, "position must be non-negative")
	}
	if c.findEntry(r.Pos()) != nil {
		return internalInvariant("put: duplicate position %d", r.Pos())
	}
	c.insertEntry(r)
	return c.maybeEvict()
}

func (c *CacheClock) Update(pos int32, r Record) (Record, error) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, c.Put(r)
	}
	if e.rec != r {
		return nil, internalInvariant("update: mismatched identity at pos %d", pos)
	}
	return e.rec, nil
}

func (c *CacheClock) Remove(pos int32) bool {
	e := c.findEntry(pos)
	if e == nil {
		return false
	}
	if c.ptr == e {
		c.ptr = e.next
	}
	c.removeEntry(e)
	return true
}

func (c *CacheClock) Clear() {
	c.clear()
	c.ptr = nil
}

func (c *CacheClock) SetMaxMemory(kb int) error {
	if err := c.setMaxMemory(kb); err != nil {
		return err
	}
	return c.maybeEvict()
}

func (c *CacheClock) GetMaxMemory() int { return c.getMaxMemoryKB() }
func (c *CacheClock) GetMemory() int    { return c.getMemoryKB() }

func (c *CacheClock) GetAllChanged() []Record { return c.getAllChanged() }

func (c *CacheClock) maybeEvict() error {
	if !c.needsEviction() {
		return nil
	}
	return c.evict()
}

// evict implements the Clock candidate order of spec §4.2's table: walk
// forward from the persistent hand, advancing over the sentinel without
// treating it as a pass boundary in its own right. A candidate with
// BeenRead()==false is skipped by advancing without clearing the bit
// (strict second-chance semantics per spec §9's resolved open question);
// a candidate already buffered for write-back is likewise skipped.
func (c *CacheClock) evict() error {
	var (
		dirty       []*entry
		flushedOnce bool
		examined    int
	)

	if c.ptr == nil || !c.ptr.linked() {
		c.ptr = c.list.head()
	}

	for !c.evictionDone(len(dirty)) {
		if c.list.isSentinel(c.ptr) {
			c.ptr = c.ptr.next
			if c.list.isSentinel(c.ptr) {
				// Empty list.
				break
			}
		}

		if examined >= c.recordCount {
			if !flushedOnce {
				if err := c.writer.FlushLog(); err != nil {
					return err
				}
				flushedOnce = true
				examined = 0
				continue
			}
			c.tracer.Warn("clock sweep exhausted two full passes without freeing enough memory",
				zap.String("evictionID", evictionid.New()),
				zap.Int("recordCount", c.recordCount),
				zap.Int64("memory", c.memory),
				zap.Int64("maxMemory", c.maxMemory),
			)
			break
		}

		cand := c.ptr
		examined++

		if cand.buffered {
			c.ptr = cand.next
			continue
		}
		if !cand.rec.BeenRead() {
			c.ptr = cand.next
			continue
		}
		if !cand.rec.CanRemove() {
			c.ptr = cand.next
			continue
		}

		c.ptr = cand.next
		if cand.rec.IsChanged() {
			cand.buffered = true
			dirty = append(dirty, cand)
			continue
		}
		c.removeEntry(cand)
	}

	return c.flushDirty(&flushedOnce, dirty)
}
