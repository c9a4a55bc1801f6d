package cache

func newMapIndex(size int) *mapIndex {
	if size <= 0 {
		size = DefaultHashSize
	}
	return &mapIndex{make(map[string]int, size)}
}

func (m *mapIndex) Destroy() {
	m.mp = make(map[string]int)
}

func (m *mapIndex) Del(k string) {
	delete(m.mp, k)
}

func (m *mapIndex) Put(k string, i int) {
	m.mp[k] = i
}

func (m *mapIndex) Get(k string) (int, bool) {
	i, ok := m.mp[k]
	return i, ok
}
