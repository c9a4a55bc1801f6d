package cache

var _ Cache = (*cache)(nil)

func New(maxSize, hashSize int) (*cache, error) {
	return NewWithConfig(Config{MaxSize: maxSize, HashSize: hashSize})
}

func NewWithConfig(cfg Config) (*cache, error) {
	if cfg.MaxSize <= 0 {
		return nil, ErrCapacity
	}
	idx := cfg.Index
	if idx == nil {
		idx = newMapIndex(cfg.HashSize)
	}
	return &cache{
		idx:       idx,
		maxSize:   cfg.MaxSize,
		head:      nilSlot,
		tail:      nilSlot,
		arena:     make([]entry, cfg.MaxSize),
		onRelease: cfg.OnRelease,
	}, nil
}

func (c *cache) Len() int {
	c.Lock()
	defer c.Unlock()
	return c.curSize
}

func (c *cache) Cap() int {
	return c.maxSize
}

func (c *cache) Get(path string) (Entry, bool) {
	c.Lock()
	defer c.Unlock()
	return c.get(path)
}

func (c *cache) Put(path, contentType string, content []byte) error {
	if len(path) == 0 {
		return ErrInvalidPath
	}
	c.Lock()
	if c.closed {
		c.Unlock()
		return ErrClosed
	}
	c.put(path, contentType, content)
	rs := c.drain()
	c.Unlock()
	c.notify(rs)
	return nil
}

// Free drops every resident entry and returns how many were released.
// The cache rejects further writes afterwards.
func (c *cache) Free() int {
	c.Lock()
	if c.closed {
		c.Unlock()
		return 0
	}
	c.closed = true
	c.idx.Destroy()
	n := 0
	for i := c.head; i != nilSlot; {
		next := c.arena[i].next
		c.release(i)
		i = next
		n++
	}
	c.head, c.tail = nilSlot, nilSlot
	c.curSize = 0
	c.arena = nil
	rs := c.drain()
	c.Unlock()
	c.notify(rs)
	return n
}

// Keys returns the resident paths from most to least recently used.
func (c *cache) Keys() []string {
	c.Lock()
	defer c.Unlock()
	ks := make([]string, 0, c.curSize)
	for i := c.head; i != nilSlot; i = c.arena[i].next {
		ks = append(ks, c.arena[i].Path)
	}
	return ks
}

func (c *cache) Stats() Stats {
	c.Lock()
	defer c.Unlock()
	s := c.stats
	s.Size = c.curSize
	s.Capacity = c.maxSize
	return s
}

func (c *cache) get(path string) (Entry, bool) {
	if c.closed {
		return Entry{}, false
	}
	i, ok := c.idx.Get(path)
	if !ok {
		c.stats.Misses++
		return Entry{}, false
	}
	c.stats.Hits++
	c.moveToHead(i)
	return c.arena[i].Entry, true
}

func (c *cache) put(path, contentType string, content []byte) {
	if i, ok := c.idx.Get(path); ok {
		c.arena[i].Entry = newEntry(path, contentType, content)
		c.moveToHead(i)
		c.stats.Refreshes++
		return
	}
	var i int
	switch {
	case c.curSize == c.maxSize:
		i = c.removeTail()
		c.idx.Del(c.arena[i].Path)
		c.release(i)
		c.stats.Evictions++
	default:
		i = c.curSize
		c.curSize++
	}
	c.arena[i].Entry = newEntry(path, contentType, content)
	c.insertHead(i)
	c.idx.Put(path, i)
	c.stats.Inserts++
}

func (c *cache) release(i int) {
	e := &c.arena[i]
	if c.onRelease != nil {
		c.released = append(c.released, e.Entry)
	}
	e.Entry = Entry{}
	e.prev, e.next = nilSlot, nilSlot
	c.stats.Releases++
}

// drain hands over the entries released under the current lock.
func (c *cache) drain() []Entry {
	rs := c.released
	c.released = nil
	return rs
}

// notify runs the release hook; it must be called without the lock held.
func (c *cache) notify(rs []Entry) {
	for _, e := range rs {
		c.onRelease(e)
	}
}

func newEntry(path, contentType string, content []byte) Entry {
	return Entry{
		Path:        path,
		ContentType: contentType,
		Content:     content,
		Length:      len(content),
	}
}
