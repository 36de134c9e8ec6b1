package lirs

// The stack and the two cold queues are each a circular doubly linked list
// through a sentinel node, in the same idiom Core A uses for its policy
// list: the sentinel is never classified as a real entry and is never
// itself returned as a candidate. Stack and queue links are independent
// fields on entry because a single entry may be linked into the stack and
// into (at most) one of the two queues simultaneously.

func newStackSentinel[E any]() *entry[E] {
	s := &entry[E]{key: -1}
	s.stackPrev, s.stackNext = s, s
	return s
}

func newQueueSentinel[E any]() *entry[E] {
	s := &entry[E]{key: -1}
	s.queuePrev, s.queueNext = s, s
	return s
}

func stackEmpty[E any](sentinel *entry[E]) bool { return sentinel.stackNext == sentinel }

func stackTail[E any](sentinel *entry[E]) *entry[E] { return sentinel.stackPrev }

func stackPush[E any](sentinel, e *entry[E]) {
	e.stackNext = sentinel.stackNext
	e.stackPrev = sentinel
	sentinel.stackNext.stackPrev = e
	sentinel.stackNext = e
	e.onStack = true
}

// stackPushBottom inserts e immediately after the sentinel's tail side,
// i.e. as the new oldest stack member — used when the remove() procedure
// restores hot-count balance by placing a promoted entry at the bottom.
func stackPushBottom[E any](sentinel, e *entry[E]) {
	e.stackPrev = sentinel.stackPrev
	e.stackNext = sentinel
	sentinel.stackPrev.stackNext = e
	sentinel.stackPrev = e
	e.onStack = true
}

func stackRemove[E any](e *entry[E]) {
	e.stackPrev.stackNext = e.stackNext
	e.stackNext.stackPrev = e.stackPrev
	e.stackPrev, e.stackNext = nil, nil
	e.onStack = false
}

func queueEmpty[E any](sentinel *entry[E]) bool { return sentinel.queueNext == sentinel }

func queueTail[E any](sentinel *entry[E]) *entry[E] { return sentinel.queuePrev }

func queuePushTop[E any](sentinel, e *entry[E], kind queueMembership) {
	e.queueNext = sentinel.queueNext
	e.queuePrev = sentinel
	sentinel.queueNext.queuePrev = e
	sentinel.queueNext = e
	e.queue = kind
}

func queueRemove[E any](e *entry[E]) {
	e.queuePrev.queueNext = e.queueNext
	e.queueNext.queuePrev = e.queuePrev
	e.queuePrev, e.queueNext = nil, nil
	e.queue = notQueued
}
