package pagecache

import (
	"math"
	"sort"
)

// flushDirty implements the shared write-back procedure of spec §4.2:
//  1. Call FlushLog once per eviction pass, if not already done.
//  2. Sort the buffered set by ascending pos for I/O locality.
//  3. Temporarily raise maxMemory to its maximum representable value so
//     that WriteBack side effects cannot re-enter eviction.
//  4. WriteBack then remove each buffered record, restoring maxMemory
//     even if a WriteBack call fails partway through.
func (c *baseCache) flushDirty(flushedOnce *bool, dirty []*entry) error {
	if len(dirty) == 0 {
		return nil
	}

	if !*flushedOnce {
		if err := c.writer.FlushLog(); err != nil {
			return err
		}
		*flushedOnce = true
	}

	sort.Slice(dirty, func(i, j int) bool {
		return dirty[i].rec.Pos() < dirty[j].rec.Pos()
	})

	saved := c.maxMemory
	c.maxMemory = math.MaxInt64
	defer func() { c.maxMemory = saved }()

	for _, e := range dirty {
		pos := e.rec.Pos()
		rec := e.rec
		if err := c.writer.WriteBack(rec); err != nil {
			return err
		}
		if !c.removeByPos(pos) {
			panic(internalInvariant("write-back: entry for pos %d vanished before removal", pos))
		}
	}
	return nil
}
