package pagecache

import "weak"

// CacheSecondLevel wraps a base Cache with an unbounded, weakly-referenced
// backing map: evicted records get a second chance to survive until the
// runtime's garbage collector actually reclaims them, exactly as spec §3's
// "second-level wrapper" describes (the Java source's SoftReference maps
// onto Go's standard library weak.Pointer, per spec §9's design note on
// substituting the closest native primitive).
//
// weak.Pointer[T] requires a concrete pointee type, so the wrapper is
// generic over T, the concrete Record implementation's pointee type (e.g.
// instantiated as CacheSecondLevel[myengine.Page] for records of type
// *myengine.Page). toPtr/fromPtr bridge between the polymorphic Record
// interface the rest of Core A uses and that concrete pointer type.
type CacheSecondLevel[T any] struct {
	base Cache

	toPtr   func(Record) (*T, bool)
	fromPtr func(*T) Record

	backing map[int32]weak.Pointer[T]
}

// NewSecondLevel wraps base. toPtr must report ok=false for any Record it
// cannot represent as *T (such records are simply not given a second
// life); fromPtr reconstructs a Record from a still-live *T.
func NewSecondLevel[T any](
	base Cache,
	toPtr func(Record) (*T, bool),
	fromPtr func(*T) Record,
) *CacheSecondLevel[T] {
	return &CacheSecondLevel[T]{
		base:    base,
		toPtr:   toPtr,
		fromPtr: fromPtr,
		backing: make(map[int32]weak.Pointer[T]),
	}
}

func (c *CacheSecondLevel[T]) remember(r Record) {
	if p, ok := c.toPtr(r); ok {
		c.backing[r.Pos()] = weak.Make(p)
	}
}

func (c *CacheSecondLevel[T]) Find(pos int32) (Record, bool) {
	if r, ok := c.base.Find(pos); ok {
		return r, true
	}
	return c.probe(pos, false)
}

func (c *CacheSecondLevel[T]) Get(pos int32) (Record, bool) {
	if r, ok := c.base.Get(pos); ok {
		return r, true
	}
	return c.probe(pos, true)
}

// probe checks the backing map on a base miss; if the weak reference is
// still live, it optionally promotes the record back into the base cache
// (mirroring spec §4.2's "On get miss from base, probe the backing map;
// if still live, promote back into the base").
func (c *CacheSecondLevel[T]) probe(pos int32, promote bool) (Record, bool) {
	wp, ok := c.backing[pos]
	if !ok {
		return nil, false
	}
	p := wp.Value()
	if p == nil {
		delete(c.backing, pos)
		return nil, false
	}

	r := c.fromPtr(p)
	if promote {
		if err := c.base.Put(r); err == nil {
			delete(c.backing, pos)
		}
	}
	return r, true
}

func (c *CacheSecondLevel[T]) Put(r Record) error {
	if err := c.base.Put(r); err != nil {
		return err
	}
	c.remember(r)
	return nil
}

func (c *CacheSecondLevel[T]) Update(pos int32, r Record) (Record, error) {
	prior, err := c.base.Update(pos, r)
	if err != nil {
		return nil, err
	}
	c.remember(r)
	return prior, nil
}

func (c *CacheSecondLevel[T]) Remove(pos int32) bool {
	delete(c.backing, pos)
	return c.base.Remove(pos)
}

func (c *CacheSecondLevel[T]) Clear() {
	c.base.Clear()
	c.backing = make(map[int32]weak.Pointer[T])
}

func (c *CacheSecondLevel[T]) SetMaxMemory(kb int) error { return c.base.SetMaxMemory(kb) }
func (c *CacheSecondLevel[T]) GetMaxMemory() int         { return c.base.GetMaxMemory() }
func (c *CacheSecondLevel[T]) GetMemory() int            { return c.base.GetMemory() }

// GetAllChanged returns only the base's changed set: backing map entries
// are, by definition, already-evicted records and therefore never dirty.
func (c *CacheSecondLevel[T]) GetAllChanged() []Record { return c.base.GetAllChanged() }
