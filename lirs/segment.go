package lirs

import (
	"sync"
	"weak"
)

// segment implements one shard's LIRS algorithm (spec §4.4, authoritative).
// All mutating operations hold mu; read-only probes that don't reorder
// recency (Peek, ContainsKey, GetMemory, the aggregate stat getters) take
// only the read lock. Go's memory model has no notion of a safely torn
// read of a pointer-containing struct the way the original design's
// lock-free probes assume, so this is the closest faithful adaptation:
// reads never race with a structural mutation, but never serialize
// against other reads either.
type segment[E any] struct {
	mu sync.RWMutex

	buckets *buckets[E]

	stackSentinel  *entry[E]
	queueSentinel  *entry[E]
	queue2Sentinel *entry[E]

	mapSize    int
	queueSize  int
	queue2Size int
	usedMemory int64
	maxMemory  int64

	hits, misses int64

	stackMoveCounter int64

	cfg Config
}

func newSegment[E any](maxMemory int64, cfg Config) *segment[E] {
	return &segment[E]{
		buckets:        newBuckets[E](2),
		stackSentinel:  newStackSentinel[E](),
		queueSentinel:  newQueueSentinel[E](),
		queue2Sentinel: newQueueSentinel[E](),
		maxMemory:      maxMemory,
		cfg:            cfg,
	}
}

// --- resize (spec §4.3) ---

func (s *segment[E]) maybeResize() {
	old := s.buckets
	length := len(old.slots)
	switch {
	case length*3 < s.mapSize*4 && length < (1 << 28):
		length *= 2
	case length > 32 && length/8 > s.mapSize:
		length /= 2
	default:
		return
	}

	nb := newBuckets[E](length)
	for _, head := range old.slots {
		for e := head; e != nil; {
			next := e.mapNext
			e.mapNext = nil
			nb.insert(e)
			e = next
		}
	}
	s.buckets = nb
}

// --- stack/queue maintenance ---

func (s *segment[E]) pruneStack() {
	for !stackEmpty[E](s.stackSentinel) {
		tail := stackTail[E](s.stackSentinel)
		if tail.isHot() {
			break
		}
		stackRemove(tail)
	}
}

// access implements spec §4.4's access(entry) procedure: batched
// promotion for hot entries, full resident/non-resident promotion for
// cold ones.
func (s *segment[E]) access(e *entry[E]) {
	s.stackMoveCounter++

	if e.isHot() {
		top := s.stackSentinel.stackNext
		if e != top && s.stackMoveCounter-e.topMove > int64(s.cfg.StackMoveDistance) {
			wasTail := stackTail[E](s.stackSentinel) == e
			stackRemove(e)
			if wasTail {
				s.pruneStack()
			}
			stackPush(s.stackSentinel, e)
			e.topMove = s.stackMoveCounter
		}
		return
	}

	v := e.liveValue()
	if v == nil {
		return
	}

	wasQueue2 := e.queue == inQueue2
	wasOnStack := e.onStack

	if e.queue != notQueued {
		if e.queue == inQueue2 {
			s.queue2Size--
		} else {
			s.queueSize--
		}
		queueRemove(e)
	}

	if wasQueue2 {
		e.value = v
		e.ref = weak.Pointer[E]{}
		s.usedMemory += int64(e.memory)
	}

	if wasOnStack {
		stackRemove(e)
		s.demoteOldestHotToCold()
	} else {
		queuePushTop(s.queueSentinel, e, inQueue)
		s.queueSize++
	}

	stackPush(s.stackSentinel, e)
	e.topMove = s.stackMoveCounter
	s.pruneStack()
}

// demoteOldestHotToCold converts the stack tail (always hot, by
// invariant) to resident cold, keeping the hot count stable after a hot
// entry has been pulled elsewhere.
func (s *segment[E]) demoteOldestHotToCold() {
	if stackEmpty[E](s.stackSentinel) {
		return
	}
	tail := stackTail[E](s.stackSentinel)
	stackRemove(tail)
	queuePushTop(s.queueSentinel, tail, inQueue)
	s.queueSize++
	s.pruneStack()
}

// removeInternal performs the general remove(key, hash) procedure used
// both by Remove and by put's replace-on-existing path.
func (s *segment[E]) removeInternal(key int64, hash int32) *entry[E] {
	e := s.buckets.find(key, hash)
	if e == nil {
		return nil
	}
	s.buckets.remove(key, hash)
	s.mapSize--

	wasHot := e.isHot()
	if e.isResident() {
		s.usedMemory -= int64(e.memory)
	}
	switch e.queue {
	case inQueue:
		s.queueSize--
		queueRemove(e)
	case inQueue2:
		s.queue2Size--
		queueRemove(e)
	}
	if e.onStack {
		stackRemove(e)
	}

	if wasHot && !queueEmpty[E](s.queueSentinel) {
		promoted := queueTail[E](s.queueSentinel)
		queueRemove(promoted)
		s.queueSize--
		if !promoted.onStack {
			stackPushBottom(s.stackSentinel, promoted)
		}
	}
	s.pruneStack()
	return e
}

// evict runs while usedMemory exceeds maxMemory: first it rebalances the
// hot/cold split (spec step 1), then it demotes resident cold entries to
// non-resident until the budget is satisfied (spec step 2).
func (s *segment[E]) evict() {
	for s.queueSize <= (s.mapSize-s.queue2Size)>>5 && !stackEmpty[E](s.stackSentinel) {
		tail := stackTail[E](s.stackSentinel)
		stackRemove(tail)
		queuePushTop(s.queueSentinel, tail, inQueue)
		s.queueSize++
		s.pruneStack()
	}

	for s.usedMemory > s.maxMemory && s.queueSize > 0 {
		tail := queueTail[E](s.queueSentinel)
		queueRemove(tail)
		s.queueSize--
		s.usedMemory -= int64(tail.memory)

		tail.ref = weak.Make(tail.value)
		tail.value = nil
		queuePushTop(s.queue2Sentinel, tail, inQueue2)
		s.queue2Size++

		s.trimNonResidentQueue()
	}
}

// trimNonResidentQueue implements spec §4.4.3: keep queue2 bounded
// relative to the resident count, but give a still-live weak reference
// a second chance before the high watermark is reached.
func (s *segment[E]) trimNonResidentQueue() {
	resident := s.mapSize - s.queue2Size
	for s.queue2Size > s.cfg.NonResidentQueueSize*resident {
		tail := queueTail[E](s.queue2Sentinel)
		if s.queue2Size <= s.cfg.NonResidentQueueSizeHigh*resident && tail.ref.Value() != nil {
			break
		}
		queueRemove(tail)
		s.queue2Size--
		s.buckets.remove(tail.key, tail.hash)
		s.mapSize--
		if tail.onStack {
			stackRemove(tail)
		}
	}
}

// --- public-ish operations (called through SegmentedCache) ---

func (s *segment[E]) put(key int64, hash int32, value *E, memory int) *E {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maybeResize()

	var old *E
	existed := false
	if e := s.removeInternal(key, hash); e != nil {
		existed = true
		old = e.liveValue()
	}

	if memory > int(s.maxMemory) {
		return old
	}

	e := &entry[E]{key: key, hash: hash, memory: memory, value: value}
	s.buckets.insert(e)
	s.usedMemory += int64(memory)
	s.mapSize++
	stackPush(s.stackSentinel, e)
	e.topMove = s.stackMoveCounter

	if s.usedMemory > s.maxMemory {
		s.evict()
		if !stackEmpty[E](s.stackSentinel) {
			queuePushTop(s.queueSentinel, e, inQueue)
			s.queueSize++
		}
	}

	if existed {
		s.access(e)
	}

	return old
}

func (s *segment[E]) get(key int64, hash int32) (*E, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maybeResize()

	e := s.buckets.find(key, hash)
	if e == nil {
		s.misses++
		return nil, false
	}
	v := e.liveValue()
	if v == nil {
		s.misses++
		return nil, false
	}
	s.hits++
	s.access(e)
	return v, true
}

func (s *segment[E]) peek(key int64, hash int32) (*E, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.buckets.find(key, hash)
	if e == nil {
		return nil, false
	}
	v := e.liveValue()
	return v, v != nil
}

func (s *segment[E]) remove(key int64, hash int32) *E {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maybeResize()
	e := s.removeInternal(key, hash)
	if e == nil {
		return nil
	}
	return e.liveValue()
}

func (s *segment[E]) containsKey(key int64, hash int32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.buckets.find(key, hash)
	return e != nil && e.liveValue() != nil
}

func (s *segment[E]) getMemory(key int64, hash int32) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.buckets.find(key, hash)
	if e == nil {
		return 0
	}
	return e.memory
}

func (s *segment[E]) trimNonResidentQueuePublic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trimNonResidentQueue()
}

func (s *segment[E]) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = newBuckets[E](2)
	s.stackSentinel = newStackSentinel[E]()
	s.queueSentinel = newQueueSentinel[E]()
	s.queue2Sentinel = newQueueSentinel[E]()
	s.mapSize, s.queueSize, s.queue2Size = 0, 0, 0
	s.usedMemory = 0
	s.stackMoveCounter = 0
}

func (s *segment[E]) setMaxMemory(max int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxMemory = max
	if s.usedMemory > s.maxMemory {
		s.evict()
	}
}

func (s *segment[E]) stats() (mapSize, hotCount, queueSize, queue2Size int, usedMemory, maxMemory, hits, misses int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hot := s.mapSize - s.queueSize - s.queue2Size
	return s.mapSize, hot, s.queueSize, s.queue2Size, s.usedMemory, s.maxMemory, s.hits, s.misses
}

// keys appends this segment's keys matching the (cold, nonResident)
// filter to dst and returns the extended slice, under the read lock.
func (s *segment[E]) keys(dst []int64, cold, nonResident bool) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, head := range s.buckets.slots {
		for e := head; e != nil; e = e.mapNext {
			switch {
			case e.queue == inQueue2:
				if nonResident {
					dst = append(dst, e.key)
				}
			case e.queue == inQueue:
				if cold {
					dst = append(dst, e.key)
				}
			default:
				if !cold && !nonResident {
					dst = append(dst, e.key)
				}
			}
		}
	}
	return dst
}
