package pagecache

// CacheLRU is the strict(-ish) LRU policy: Get, Put and a matching Update
// all bump the accessed record to the recent end of the list; eviction
// walks from the oldest end forward (spec §4.2 table).
type CacheLRU struct {
	*baseCache
}

// NewLRU constructs an LRU-policy cache writing dirty pages back through
// writer, bounded to maxMemoryKB kilobytes.
func NewLRU(writer CacheWriter, maxMemoryKB int) (*CacheLRU, error) {
	base, err := newBaseCache(writer, maxMemoryKB)
	if err != nil {
		return nil, err
	}
	return &CacheLRU{base}, nil
}

func (c *CacheLRU) Get(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	c.list.moveToBack(e)
	return e.rec, true
}

func (c *CacheLRU) Find(pos int32) (Record, bool) {
	e := c.findEntry(pos)
	if e == nil {
		return nil, false
	}
	return e.rec, true
}

func (c *CacheLRU) Put(r Record) error {
	if r == nil || r.Pos() < 0 {
		return invalidArgument("record.pos", r, "position must be non-negative")
	}
	if c.findEntry(r.Pos()) != nil {
		return internalInvariant("put: duplicate position %d", r.Pos())
	}
	c.insertEntry(r)
	return c.maybeEvict()
}

func (c *CacheLRU) Update(pos int32, r Record) (Record, error) {
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

func (c *CacheLRU) Remove(pos int32) bool {
	return c.removeByPos(pos)
}

func (c *CacheLRU) Clear() { c.clear() }

func (c *CacheLRU) SetMaxMemory(kb int) error {
	if err := c.setMaxMemory(kb); err != nil {
		return err
	}
	return c.maybeEvict()
}

func (c *CacheLRU) GetMaxMemory() int { return c.getMaxMemoryKB() }
func (c *CacheLRU) GetMemory() int    { return c.getMemoryKB() }

func (c *CacheLRU) GetAllChanged() []Record { return c.getAllChanged() }

func (c *CacheLRU) maybeEvict() error {
	if !c.needsEviction() {
		return nil
	}
	return c.evictForward()
}
