package pagecache

import (
	"math"

	"github.com/arda-db/dbcache/tracing"
)

// Cache is the common contract all five replacement policies implement.
// An implementation is single-threaded: the owning storage engine holds an
// external lock across any call, including across a WriteBack side effect.
type Cache interface {
	Get(pos int32) (Record, bool)
	Find(pos int32) (Record, bool)
	Put(r Record) error
	Update(pos int32, r Record) (Record, error)
	Remove(pos int32) bool
	Clear()
	SetMaxMemory(kb int) error
	GetMaxMemory() int
	GetMemory() int
	GetAllChanged() []Record
}

// baseCache is the shared skeleton described in spec §4.2: an
// open-addressed chained hash bucket array, a doubly linked policy list
// circular through a sentinel, a memory watermark, and an injected writer.
// It is embedded by each of the five policy implementations, which supply
// only their candidate order and skip behavior.
type baseCache struct {
	writer CacheWriter
	tracer tracing.Tracer

	buckets bucketArray
	list    *policyList

	length      int32 // bucket count, a power of two
	memory      int64 // current accounted memory, in 4-byte words
	maxMemory   int64 // watermark, in 4-byte words
	recordCount int
}

// newBaseCache implements spec §4.2 construction: clamp max memory to >=0,
// convert kilobytes to 4-byte words, compute the bucket count, and account
// for the bucket array's own overhead.
func newBaseCache(writer CacheWriter, maxMemoryKB int) (*baseCache, error) {
	if writer == nil {
		return nil, invalidArgument("writer", writer, "writer must not be nil")
	}
	if maxMemoryKB < 0 {
		maxMemoryKB = 0
	}

	maxMemory := (int64(maxMemoryKB) * 1024) / 4

	bucketsWanted := maxMemory / 64
	if bucketsWanted > math.MaxInt32 {
		return nil, invalidState(
			"requested cache memory %d KB would require %d buckets, exceeding int32",
			maxMemoryKB, bucketsWanted,
		)
	}

	length := nextPowerOfTwo(bucketsWanted)
	if length > math.MaxInt32 {
		return nil, invalidState(
			"requested cache memory %d KB rounds up to %d buckets, exceeding int32",
			maxMemoryKB, length,
		)
	}

	c := &baseCache{
		writer:    writer,
		tracer:    writer.GetTrace(),
		buckets:   newBucketArray(int32(length)),
		list:      newPolicyList(),
		length:    int32(length),
		maxMemory: maxMemory,
	}
	c.memory = int64(c.length) * MemoryPointer
	return c, nil
}

func (c *baseCache) findEntry(pos int32) *entry {
	if pos < 0 {
		return nil
	}
	return c.buckets.find(pos)
}

// insertEntry wraps rec in a fresh entry, chains it into its bucket, and
// places it at the list's recent end. Caller must not already hold an
// entry for rec.Pos().
func (c *baseCache) insertEntry(rec Record) *entry {
	e := &entry{rec: rec}
	c.buckets.insert(e)
	c.list.pushBack(e)
	c.recordCount++
	c.memory += int64(rec.Memory())
	return e
}

// removeEntry unlinks e from both the bucket chain and the policy list,
// adjusts counters, and clears its link fields. Per spec §4.2 step 4, an
// implementer must assert those fields are cleared post-remove.
func (c *baseCache) removeEntry(e *entry) {
	if !c.buckets.remove(e) {
		panic(internalInvariant("remove: entry for pos %d not found in bucket chain", e.rec.Pos()))
	}
	c.list.unlink(e)
	c.recordCount--
	c.memory -= int64(e.rec.Memory())
	e.clear()
	if e.linked() {
		panic(internalInvariant("remove: entry for pos %d still linked after clear", e.rec.Pos()))
	}
}

func (c *baseCache) removeByPos(pos int32) bool {
	e := c.findEntry(pos)
	if e == nil {
		return false
	}
	c.removeEntry(e)
	return true
}

func (c *baseCache) getMemoryKB() int {
	return int((c.memory * 4) / 1024)
}

func (c *baseCache) getMaxMemoryKB() int {
	return int((c.maxMemory * 4) / 1024)
}

// setMaxMemory updates the watermark. Eviction, if needed, is the caller's
// responsibility (each policy wrapper re-triggers it after calling this).
func (c *baseCache) setMaxMemory(kb int) error {
	if kb < 0 {
		return invalidArgument("kb", kb, "max memory must be non-negative")
	}
	c.maxMemory = (int64(kb) * 1024) / 4
	return nil
}

// getAllChanged returns a snapshot of currently dirty records, in list
// traversal order (oldest to newest).
func (c *baseCache) getAllChanged() []Record {
	out := make([]Record, 0, c.recordCount)
	c.list.forEach(func(e *entry) bool {
		if e.rec.IsChanged() {
			out = append(out, e.rec)
		}
		return true
	})
	return out
}

// clear drops all records and resets counters, keeping the bucket array
// allocation (and therefore its accounted overhead) in place.
func (c *baseCache) clear() {
	for i := range c.buckets.slots {
		c.buckets.slots[i] = nil
	}
	c.list = newPolicyList()
	c.recordCount = 0
	c.memory = int64(c.length) * MemoryPointer
}

// needsEviction reports whether the shared eviction entry point should run
// at all: spec §4.2, "eviction runs whenever memory >= maxMemory".
func (c *baseCache) needsEviction() bool {
	return c.memory >= c.maxMemory
}

// evictionDone evaluates the three-part termination condition of spec
// §4.2: a hard floor on resident record count, then either an empty
// dirty buffer reduced under the watermark, or a non-empty dirty buffer
// reduced under the relaxed 3/4 watermark (since flushing it will reclaim
// memory). Records already buffered for write-back count as gone, both
// from the record count and from memory, since flushDirty removes them.
func (c *baseCache) evictionDone(bufferedLen int) bool {
	records, memory := c.recordCount, c.memory
	if bufferedLen > 0 {
		records -= bufferedLen
		c.list.forEach(func(e *entry) bool {
			if e.buffered {
				memory -= int64(e.rec.Memory())
			}
			return true
		})
	}
	if records <= MinRecords {
		return true
	}
	if bufferedLen == 0 {
		return memory <= c.maxMemory
	}
	return memory*4 <= c.maxMemory*3
}
