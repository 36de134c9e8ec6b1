package lirs

// buckets is a power-of-two sized hash table with singly linked chaining
// through entry.mapNext, mirroring Core A's bucket array (spec §4.5: both
// cores are power-of-two sized with index = hash & mask, forbidding
// duplicate keys).
type buckets[E any] struct {
	slots []*entry[E]
	mask  int32
}

func newBuckets[E any](length int) *buckets[E] {
	if length < 2 {
		length = 2
	}
	return &buckets[E]{
		slots: make([]*entry[E], length),
		mask:  int32(length - 1),
	}
}

func (b *buckets[E]) index(hash int32) int32 { return hash & b.mask }

func (b *buckets[E]) find(key int64, hash int32) *entry[E] {
	for e := b.slots[b.index(hash)]; e != nil; e = e.mapNext {
		if e.key == key {
			return e
		}
	}
	return nil
}

func (b *buckets[E]) insert(e *entry[E]) {
	i := b.index(e.hash)
	e.mapNext = b.slots[i]
	b.slots[i] = e
}

func (b *buckets[E]) remove(key int64, hash int32) bool {
	i := b.index(hash)
	prev := (*entry[E])(nil)
	for e := b.slots[i]; e != nil; e = e.mapNext {
		if e.key == key {
			if prev == nil {
				b.slots[i] = e.mapNext
			} else {
				prev.mapNext = e.mapNext
			}
			e.mapNext = nil
			return true
		}
		prev = e
	}
	return false
}

func nextPowerOfTwo(n int64) int64 {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// mixHash implements spec §4.3's key mixing function. Every step after the
// initial 64-to-32-bit truncation must be done in genuine 32-bit
// arithmetic: Java's `int` multiply wraps mod 2^32 and `>>>` is a logical
// (zero-fill) shift regardless of sign, so each intermediate result is
// kept as int32/uint32 rather than accumulated in a 64-bit width, where
// the shifts and multiplies would not wrap the same way.
func mixHash(key int64) int32 {
	h := int32(int64(uint64(key)>>32) ^ key)
	h = (int32(uint32(h)>>16) ^ h) * 0x45d9f3b
	h = (int32(uint32(h)>>16) ^ h) * 0x45d9f3b
	h = int32(uint32(h)>>16) ^ h
	return h
}
