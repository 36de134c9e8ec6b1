package pagecache

// entry is the cache-owned wrapper around a Record: it carries the policy
// list links and the bucket chain link so that a Record implementation
// never has to expose mutable state to the cache. The sentinel entry
// (rec == nil) anchors a circular doubly linked list; it is never evicted
// or reordered.
type entry struct {
	prev, next *entry // policy list, circular through the sentinel
	chainNext  *entry // singly linked bucket chain

	rec Record

	// buffered marks an entry already appended to the current eviction
	// pass's dirty write-back set, so a later traversal (e.g. a second
	// bounded pass, or Clock's persistent hand) does not enqueue it twice.
	buffered bool
}

// policyList is a doubly linked list circular through a sentinel node, as
// required by spec §3: "the linked list is circular through the sentinel;
// the sentinel is never evicted or reordered."
type policyList struct {
	sentinel entry
}

func newPolicyList() *policyList {
	l := &policyList{}
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
	return l
}

// head is the oldest (least recently promoted) entry, sentinel.next.
func (l *policyList) head() *entry { return l.sentinel.next }

// tail is the newest (most recently promoted) entry, sentinel.prev.
func (l *policyList) tail() *entry { return l.sentinel.prev }

func (l *policyList) isSentinel(e *entry) bool { return e == &l.sentinel }

// unlink removes e from the list without clearing its own pointers; the
// caller is responsible for either relinking e or clearing it via clear().
func (l *policyList) unlink(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

// clear zeroes e's link fields. Callers must assert this has happened
// after a remove, per spec §4.2 write-back step 4.
func (e *entry) clear() {
	e.prev = nil
	e.next = nil
	e.chainNext = nil
	e.buffered = false
}

func (e *entry) linked() bool {
	return e.prev != nil || e.next != nil
}

// insertBefore splices e immediately before at (at may be the sentinel,
// which makes e the new tail).
func (l *policyList) insertBefore(e, at *entry) {
	e.prev = at.prev
	e.next = at
	at.prev.next = e
	at.prev = e
}

// pushFront makes e the new head of the list (sentinel.next).
func (l *policyList) pushFront(e *entry) {
	l.insertBefore(e, l.sentinel.next)
}

// pushBack makes e the new tail of the list (sentinel.prev).
func (l *policyList) pushBack(e *entry) {
	l.insertBefore(e, &l.sentinel)
}

// moveToFront relocates an already-linked e to the head of the list.
func (l *policyList) moveToFront(e *entry) {
	if l.head() == e {
		return
	}
	l.unlink(e)
	l.pushFront(e)
}

// moveToBack relocates an already-linked e to the tail of the list.
func (l *policyList) moveToBack(e *entry) {
	if l.tail() == e {
		return
	}
	l.unlink(e)
	l.pushBack(e)
}

// forEach walks the list from head to tail, stopping early if fn returns
// false. The sentinel itself is never visited.
func (l *policyList) forEach(fn func(e *entry) bool) {
	for e := l.head(); !l.isSentinel(e); e = e.next {
		if !fn(e) {
			return
		}
	}
}

// forEachReverse walks the list from tail to head, stopping early if fn
// returns false. The sentinel itself is never visited.
func (l *policyList) forEachReverse(fn func(e *entry) bool) {
	for e := l.tail(); !l.isSentinel(e); e = e.prev {
		if !fn(e) {
			return
		}
	}
}

// count returns the number of non-sentinel nodes, by traversal.
func (l *policyList) count() int {
	n := 0
	l.forEach(func(*entry) bool { n++; return true })
	return n
}
