package cache

import (
	"errors"
	"sync"
)

const (
	nilSlot         = -1
	DefaultHashSize = 128
)

var (
	ErrClosed      = errors.New("cache is closed")
	ErrCapacity    = errors.New("cache capacity must be positive")
	ErrInvalidPath = errors.New("cache path is empty")
)

type Cache interface {
	Len() int
	Cap() int
	Free() int
	Keys() []string
	Stats() Stats
	Get(string) (Entry, bool)
	Put(string, string, []byte) error
}

// Index maps a path to the arena slot of its entry.
type Index interface {
	Destroy()
	Del(string)
	Put(string, int)
	Get(string) (int, bool)
}

type Config struct {
	MaxSize  int
	HashSize int
	// Index overrides the default map-backed index.
	Index Index
	// OnRelease is called once for every entry dropped by eviction or Free,
	// after the cache lock is released, so it may call back into the cache.
	OnRelease func(Entry)
}

// Entry is a copy of a resident resource handed out to callers.
// Content is shared with the cache and must not be modified.
type Entry struct {
	Path        string
	ContentType string
	Content     []byte
	Length      int
}

type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Inserts   uint64
	Refreshes uint64
	Evictions uint64
	Releases  uint64
}

// entry is one arena slot; prev and next are slot numbers, nilSlot when absent.
type entry struct {
	prev, next int
	Entry
}

type mapIndex struct {
	mp map[string]int
}

type cache struct {
	sync.Mutex
	closed     bool
	maxSize    int
	curSize    int
	head, tail int
	idx        Index
	arena      []entry
	stats      Stats
	released   []Entry
	onRelease  func(Entry)
}
