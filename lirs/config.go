package lirs

import "github.com/arda-db/dbcache/internal/cerr"

// Config parameterizes a SegmentedCache. Zero-value fields are replaced by
// defaults in New, except MaxMemory which is mandatory.
type Config struct {
	// MaxMemory is the global memory budget across all segments, in
	// caller-chosen units. Must be ≥ 1.
	MaxMemory int64

	// SegmentCount is the number of independently locked shards. Must be a
	// power of two. Defaults to 16.
	SegmentCount int

	// StackMoveDistance batches stack-top promotions for hot entries: a hot
	// entry already near the top is not re-promoted until the segment's
	// move counter has advanced by this much since its last promotion.
	// Defaults to 32.
	StackMoveDistance int

	// NonResidentQueueSize is the factor bounding queue2 relative to the
	// resident entry count. Defaults to 3.
	NonResidentQueueSize int

	// NonResidentQueueSizeHigh is the looser factor used to give a
	// still-live weak reference a second chance before eviction from
	// queue2. Defaults to 12.
	NonResidentQueueSizeHigh int
}

const (
	defaultSegmentCount             = 16
	defaultStackMoveDistance        = 32
	defaultNonResidentQueueSize     = 3
	defaultNonResidentQueueSizeHigh = 12
)

// normalize fills in defaults and validates the result. The original Config
// passed to New is never mutated.
func (c Config) normalize() (Config, error) {
	if c.MaxMemory < 1 {
		return c, cerr.NewInvalidArgument("maxMemory", c.MaxMemory, "must be at least 1")
	}
	if c.SegmentCount == 0 {
		c.SegmentCount = defaultSegmentCount
	}
	if !isPowerOfTwo(c.SegmentCount) {
		return c, cerr.NewInvalidArgument("segmentCount", c.SegmentCount, "must be a power of two")
	}
	if c.StackMoveDistance == 0 {
		c.StackMoveDistance = defaultStackMoveDistance
	}
	if c.NonResidentQueueSize == 0 {
		c.NonResidentQueueSize = defaultNonResidentQueueSize
	}
	if c.NonResidentQueueSizeHigh == 0 {
		c.NonResidentQueueSizeHigh = defaultNonResidentQueueSizeHigh
	}
	return c, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// log2 returns the base-2 logarithm of a positive power of two.
func log2(n int) uint {
	var shift uint
	for n > 1 {
		n >>= 1
		shift++
	}
	return shift
}
