package pagecache

// CacheFIFO evicts in strict insertion order: unlike LRU, Get and a
// matching Update never reorder the list. The eviction walk is otherwise
// identical to LRU's — forward from the oldest end, bumping non-removable
// candidates to the recent end — so it reuses evictForward directly.
type CacheFIFO struct {
	*baseCache
}

func NewFIFO(writer CacheWriter, maxMemoryKB int) (*CacheFIFO, error) {
	base, err := newBaseCache(writer, maxMemoryKB)
	if err != nil {
		return nil, err
	}
	return &CacheFIFO{base}, nil
}

func (c *CacheFIFO) Get(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	return e.rec, true
}

func (c *CacheFIFO) Find(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	return e.rec, true
}

func (c *CacheFIFO) Put(r Record) error {
	if r == nil || r.Pos() < 0 {
		return invalidArgument("record.pos", r, "position must be non-negative")
	}
	if c.findEntry(r.Pos()) != nil {
		return internalInvariant("put: duplicate position %d", r.Pos())
	}
	c.insertEntry(r)
	return c.maybeEvict()
}

func (c *CacheFIFO) Update(pos int32, r Record) (Record, error) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, c.Put(r)
	}
	if e.rec != r {
		return nil, internalInvariant("update: mismatched identity at pos %d", pos)
	}
	return e.rec, nil
}

func (c *CacheFIFO) Remove(pos int32) bool {
	return c.removeByPos(pos)
}

func (c *CacheFIFO) Clear() { c.clear() }

func (c *CacheFIFO) SetMaxMemory(kb int) error {
	if err := c.setMaxMemory(kb); err != nil {
		return err
	}
	return c.maybeEvict()
}

func (c *CacheFIFO) GetMaxMemory() int { return c.getMaxMemoryKB() }
func (c *CacheFIFO) GetMemory() int    { return c.getMemoryKB() }

func (c *CacheFIFO) GetAllChanged() []Record { return c.getAllChanged() }

func (c *CacheFIFO) maybeEvict() error {
	if !c.needsEviction() {
		return nil
	}
	return c.evictForward()
}
