package cache

func (c *cache) insertHead(i int) {
	e := &c.arena[i]
	if c.head == nilSlot {
		e.prev, e.next = nilSlot, nilSlot
		c.head, c.tail = i, i
		return
	}
	c.arena[c.head].prev = i
	e.next = c.head
	e.prev = nilSlot
	c.head = i
}

func (c *cache) moveToHead(i int) {
	if i == c.head {
		return
	}
	e := &c.arena[i]
	switch {
	case i == c.tail:
		c.tail = e.prev
		c.arena[c.tail].next = nilSlot
	default:
		c.arena[e.prev].next = e.next
		c.arena[e.next].prev = e.prev
	}
	c.insertHead(i)
}

// removeTail unlinks the least recently used slot and returns it.
// The slot still holds its payload; the caller owns it from here.
func (c *cache) removeTail() int {
	if c.tail == nilSlot {
		panic("cache: remove tail of empty eviction list")
	}
	i := c.tail
	e := &c.arena[i]
	c.tail = e.prev
	if c.tail == nilSlot {
		c.head = nilSlot
	} else {
		c.arena[c.tail].next = nilSlot
	}
	e.prev, e.next = nilSlot, nilSlot
	return i
}
