package pagecache

import (
	"go.uber.org/zap"

	"github.com/arda-db/dbcache/internal/evictionid"
)

// evictForward drives the shared candidate walk used by both LRU and FIFO
// (spec §4.2 table): start at the oldest end, step forward, and on a
// non-removable candidate bump it to the recent end before continuing.
// LRU and FIFO differ only in whether Get/Update themselves reorder the
// list — the eviction walk itself is identical for both.
func (c *baseCache) evictForward() error {
	var (
		dirty       []*entry
		flushedOnce bool
		passes      int
	)

	cur := c.list.head()
	for !c.evictionDone(len(dirty)) {
		if c.list.isSentinel(cur) {
			passes++
			if passes >= 2 {
				c.tracer.Warn("eviction exhausted two full passes without freeing enough memory",
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
			cur = c.list.head()
			continue
		}

		next := cur.next
		if cur.buffered {
			cur = next
			continue
		}
		if !cur.rec.CanRemove() {
			c.list.moveToBack(cur)
			cur = next
			continue
		}

		candidate := cur
		cur = next
		if candidate.rec.IsChanged() {
			candidate.buffered = true
			dirty = append(dirty, candidate)
			continue
		}
		c.removeEntry(candidate)
	}

	return c.flushDirty(&flushedOnce, dirty)
}

// evictBackward is MRU's mirror image: start at the newest end, step
// backward, and bump non-removable candidates to the old end instead.
func (c *baseCache) evictBackward() error {
	var (
		dirty       []*entry
		flushedOnce bool
		passes      int
	)

	cur := c.list.tail()
	for !c.evictionDone(len(dirty)) {
		if c.list.isSentinel(cur) {
			passes++
			if passes >= 2 {
				c.tracer.Warn("eviction exhausted two full passes without freeing enough memory",
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
			cur = c.list.tail()
			continue
		}

		prev := cur.prev
		if cur.buffered {
			cur = prev
			continue
		}
		if !cur.rec.CanRemove() {
			c.list.moveToFront(cur)
			cur = prev
			continue
		}

		candidate := cur
		cur = prev
		if candidate.rec.IsChanged() {
			candidate.buffered = true
			dirty = append(dirty, candidate)
			continue
		}
		c.removeEntry(candidate)
	}

	return c.flushDirty(&flushedOnce, dirty)
}
