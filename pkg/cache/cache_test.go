package cache

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func put(t *testing.T, c *cache, path string) {
	require.NoError(t, c.Put(path, "text/plain", []byte(path)))
}

// checkInvariants walks the eviction list and cross-checks it with the index.
func checkInvariants(t *testing.T, c *cache) {
	if c.curSize == 0 {
		require.Equal(t, nilSlot, c.head)
		require.Equal(t, nilSlot, c.tail)
		return
	}
	require.Equal(t, nilSlot, c.arena[c.head].prev)
	require.Equal(t, nilSlot, c.arena[c.tail].next)
	seen := make(map[string]bool)
	n, last := 0, nilSlot
	for i := c.head; i != nilSlot; i = c.arena[i].next {
		e := c.arena[i]
		require.Equal(t, last, e.prev)
		require.False(t, seen[e.Path], "duplicate path %s", e.Path)
		seen[e.Path] = true
		j, ok := c.idx.Get(e.Path)
		require.True(t, ok, "%s missing from index", e.Path)
		require.Equal(t, i, j)
		last = i
		n++
	}
	require.Equal(t, c.tail, last)
	require.Equal(t, c.curSize, n)
	require.Len(t, c.idx.(*mapIndex).mp, n)
	require.True(t, c.curSize <= c.maxSize)
}

func TestNewRejectsCapacity(t *testing.T) {
	for _, n := range []int{0, -1} {
		c, err := New(n, 0)
		require.Equal(t, ErrCapacity, err)
		require.Nil(t, c)
	}
}

func TestGetMiss(t *testing.T) {
	c, err := New(2, 0)
	require.NoError(t, err)
	_, ok := c.Get("/a")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
	require.Equal(t, uint64(1), c.Stats().Misses)
}

func TestPutInvalidPath(t *testing.T) {
	c, err := New(2, 0)
	require.NoError(t, err)
	require.Equal(t, ErrInvalidPath, c.Put("", "text/plain", nil))
	require.Equal(t, 0, c.Len())
}

func TestCapacityBound(t *testing.T) {
	c, err := New(4, 0)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		put(t, c, fmt.Sprintf("/%d", i))
		require.True(t, c.Len() <= 4)
		checkInvariants(t, c)
	}
	require.Equal(t, 4, c.Len())
	require.Equal(t, []string{"/49", "/48", "/47", "/46"}, c.Keys())
}

func TestRecency(t *testing.T) {
	c, err := New(3, 0)
	require.NoError(t, err)
	put(t, c, "A")
	put(t, c, "B")
	put(t, c, "C")
	_, ok := c.Get("A")
	require.True(t, ok)
	put(t, c, "D")

	_, ok = c.Get("B")
	require.False(t, ok)
	for _, k := range []string{"A", "C", "D"} {
		_, ok := c.Get(k)
		require.True(t, ok, k)
	}
	checkInvariants(t, c)
}

func TestHitPromotes(t *testing.T) {
	for i, k := range []string{"A", "B", "C"} {
		c, err := New(3, 0)
		require.NoError(t, err)
		put(t, c, "A")
		put(t, c, "B")
		put(t, c, "C")

		_, ok := c.Get(k)
		require.True(t, ok)
		require.Equal(t, k, c.Keys()[0])
		put(t, c, fmt.Sprintf("N%d", i))
		_, ok = c.Get(k)
		require.True(t, ok, "%s evicted right after a hit", k)
		require.Equal(t, 3, c.Len())
		checkInvariants(t, c)
	}
}

func TestPutRefresh(t *testing.T) {
	c, err := New(3, 0)
	require.NoError(t, err)
	require.NoError(t, c.Put("K", "text/plain", []byte("v1")))
	put(t, c, "X")
	n := c.Len()
	require.NoError(t, c.Put("K", "text/html", []byte("value2")))
	require.Equal(t, n, c.Len())
	require.Equal(t, []string{"K", "X"}, c.Keys())

	e, ok := c.Get("K")
	require.True(t, ok)
	require.Equal(t, "value2", string(e.Content))
	require.Equal(t, "text/html", e.ContentType)
	require.Equal(t, 6, e.Length)
	require.Equal(t, uint64(1), c.Stats().Refreshes)
	checkInvariants(t, c)
}

func TestEvictionOrder(t *testing.T) {
	var evicted []string
	c, err := NewWithConfig(Config{MaxSize: 2, OnRelease: func(e Entry) {
		evicted = append(evicted, e.Path)
	}})
	require.NoError(t, err)
	put(t, c, "A")
	put(t, c, "B")
	put(t, c, "C")
	_, ok := c.Get("A")
	require.False(t, ok)
	require.Equal(t, []string{"A"}, evicted)
	require.Equal(t, []string{"C", "B"}, c.Keys())
	require.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestCapacityOne(t *testing.T) {
	c, err := New(1, 0)
	require.NoError(t, err)
	put(t, c, "A")
	put(t, c, "B")
	checkInvariants(t, c)
	_, ok := c.Get("A")
	require.False(t, ok)
	e, ok := c.Get("B")
	require.True(t, ok)
	require.Equal(t, "B", string(e.Content))
}

func TestRandomOperations(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	c, err := New(8, 4)
	require.NoError(t, err)
	for i := 0; i < 2000; i++ {
		k := fmt.Sprintf("/%d", r.Intn(20))
		if r.Intn(2) == 0 {
			c.Get(k)
		} else {
			put(t, c, k)
		}
		checkInvariants(t, c)
	}
}

func TestFree(t *testing.T) {
	released := make(map[string]int)
	c, err := NewWithConfig(Config{MaxSize: 4, OnRelease: func(e Entry) {
		released[e.Path]++
	}})
	require.NoError(t, err)
	for _, k := range []string{"A", "B", "C"} {
		put(t, c, k)
	}
	c.Get("A")

	require.Equal(t, 3, c.Free())
	require.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, released)
	require.Equal(t, 0, c.Len())
	require.Empty(t, c.Keys())

	require.Equal(t, 0, c.Free())
	require.Len(t, released, 3)
	require.Equal(t, ErrClosed, c.Put("D", "text/plain", nil))
	_, ok := c.Get("A")
	require.False(t, ok)
}

func TestFreeCountsEvictions(t *testing.T) {
	n := 0
	c, err := NewWithConfig(Config{MaxSize: 3, OnRelease: func(Entry) { n++ }})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		put(t, c, fmt.Sprintf("/%d", i))
	}
	require.Equal(t, 7, n)
	require.Equal(t, 3, c.Free())
	require.Equal(t, 10, n)
	require.Equal(t, uint64(10), c.Stats().Releases)
}

type countingIndex struct {
	mapIndex
	destroyed int
}

func (ci *countingIndex) Destroy() {
	ci.destroyed++
	ci.mapIndex.Destroy()
}

func TestCustomIndex(t *testing.T) {
	ci := &countingIndex{mapIndex: mapIndex{make(map[string]int)}}
	c, err := NewWithConfig(Config{MaxSize: 2, Index: ci})
	require.NoError(t, err)
	put(t, c, "A")
	put(t, c, "B")
	put(t, c, "C")
	require.Len(t, ci.mp, 2)
	_, ok := ci.Get("A")
	require.False(t, ok)
	c.Free()
	require.Equal(t, 1, ci.destroyed)
}

func TestConcurrentAccess(t *testing.T) {
	c, err := New(8, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < 2000; i++ {
				k := fmt.Sprintf("/%d", r.Intn(24))
				if r.Intn(2) == 0 {
					if e, ok := c.Get(k); ok && e.Path != k {
						t.Errorf("got %s for %s", e.Path, k)
					}
				} else if err := c.Put(k, "text/plain", []byte(k)); err != nil {
					t.Errorf("put %s: %v", k, err)
				}
			}
		}(int64(g))
	}
	wg.Wait()

	require.Equal(t, 8, c.Len())
	checkInvariants(t, c)
}

func TestOnReleaseMayUseCache(t *testing.T) {
	var c *cache
	var sizes []int
	c, err := NewWithConfig(Config{MaxSize: 2, OnRelease: func(e Entry) {
		sizes = append(sizes, c.Len())
		_, ok := c.Get(e.Path)
		require.False(t, ok)
	}})
	require.NoError(t, err)
	put(t, c, "A")
	put(t, c, "B")
	put(t, c, "C")
	require.Equal(t, []int{2}, sizes)

	require.Equal(t, 2, c.Free())
	require.Equal(t, []int{2, 0, 0}, sizes)
}
