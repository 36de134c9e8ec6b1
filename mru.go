package pagecache

// CacheMRU evicts the most-recently-used record instead of the least:
// Get and a matching Update still bump the accessed record to the recent
// end (recency tracking is identical to LRU), but eviction walks from
// that recent end backward toward the oldest, and a skipped candidate is
// bumped the opposite way, to the old end.
type CacheMRU struct {
	*baseCache
}

func NewMRU(writer CacheWriter, maxMemoryKB int) (*CacheMRU, error) {
	base, err := newBaseCache(writer, maxMemoryKB)
	if err != nil {
		return nil, err
	}
	return &CacheMRU{base}, nil
}

func (c *CacheMRU) Get(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	c.list.moveToBack(e)
	return e.rec, true
}

func (c *CacheMRU) Find(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	return e.rec, true
}

func (c *CacheMRU) Put(r Record) error {
	if r == nil || r.Pos() < 0 {
		return invalidArgument("record.pos", r, "position must be non-negative")
	}
	if c.findEntry(r.Pos()) != nil {
		return internalInvariant("put: duplicate position %d", r.Pos())
	}
	c.insertEntry(r)
	return c.maybeEvict()
}

func (c *CacheMRU) Update(pos int32, r Record) (Record, error) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, c.Put(r)
	}
	if e.rec != r {
		return nil, internalInvariant("update: mismatched identity at pos %d", pos)
	}
	c.list.moveToBack(e)
	return e.rec, nil
}

func (c *CacheMRU) Remove(pos int32) bool {
	return c.removeByPos(pos)
}

func (c *CacheMRU) Clear() { c.clear() }

func (c *CacheMRU) SetMaxMemory(kb int) error {
	if err := c.setMaxMemory(kb); err != nil {
		return err
	}
	return c.maybeEvict()
}

func (c *CacheMRU) GetMaxMemory() int { return c.getMaxMemoryKB() }
func (c *CacheMRU) GetMemory() int    { return c.getMemoryKB() }

func (c *CacheMRU) GetAllChanged() []Record { return c.getAllChanged() }

func (c *CacheMRU) maybeEvict() error {
	if !c.needsEviction() {
		return nil
	}
	return c.evictBackward()
}
